package woocommerce

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const oauthSignatureMethod = "HMAC-SHA256"

// oauthSigner produces one-legged OAuth 1.0a query signatures, which the
// store requires for requests that are not sent over TLS.
type oauthSigner struct {
	consumerKey    string
	consumerSecret string
	version        string
	now            func() time.Time
	nonce          func() string
}

func newOAuthSigner(key, secret, version string) *oauthSigner {
	return &oauthSigner{
		consumerKey:    key,
		consumerSecret: secret,
		version:        version,
		now:            time.Now,
		nonce:          randomNonce,
	}
}

func (s *oauthSigner) sign(method, endpoint string, params url.Values) url.Values {
	params.Set("oauth_consumer_key", s.consumerKey)
	params.Set("oauth_timestamp", strconv.FormatInt(s.now().Unix(), 10))
	params.Set("oauth_nonce", s.nonce())
	params.Set("oauth_signature_method", oauthSignatureMethod)
	params.Del("oauth_signature")
	params.Set("oauth_signature", s.signature(method, endpoint, params))
	return params
}

func (s *oauthSigner) signature(method, endpoint string, params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		for _, v := range params[k] {
			pairs = append(pairs, percentEncode(k)+"="+percentEncode(v))
		}
	}

	base := strings.Join([]string{
		strings.ToUpper(method),
		percentEncode(endpoint),
		percentEncode(strings.Join(pairs, "&")),
	}, "&")

	// Legacy API versions sign with the bare secret.
	key := s.consumerSecret
	if s.version != "v1" && s.version != "v2" {
		key += "&"
	}

	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(base))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// percentEncode applies RFC 3986 encoding as OAuth 1.0a requires.
func percentEncode(s string) string {
	escaped := url.QueryEscape(s)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	escaped = strings.ReplaceAll(escaped, "%7E", "~")
	return escaped
}

func randomNonce() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return hex.EncodeToString(buf)
}
