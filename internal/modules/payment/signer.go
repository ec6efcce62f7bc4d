package payment

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

const checkValueField = "CheckMacValue"

// Signer computes the keyed check value the gateway expects on both
// outbound checkout payloads and inbound callbacks. Credentials are
// injected explicitly; there is no relaxed verification mode.
type Signer struct {
	hashKey string
	hashIV  string
}

func NewSigner(hashKey, hashIV string) *Signer {
	return &Signer{hashKey: hashKey, hashIV: hashIV}
}

// CheckValue canonicalizes params (check value itself excluded), wraps them
// in the key pair, URL-encodes per the gateway's legacy convention,
// lowercases, and hashes. The same routine signs outbound payloads and
// re-verifies inbound ones.
func (s *Signer) CheckValue(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if strings.EqualFold(k, checkValueField) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return strings.ToLower(keys[i]) < strings.ToLower(keys[j])
	})

	var sb strings.Builder
	sb.WriteString("HashKey=" + s.hashKey)
	for _, k := range keys {
		sb.WriteString("&" + k + "=" + params[k])
	}
	sb.WriteString("&HashIV=" + s.hashIV)

	encoded := strings.ToLower(gatewayEscape(sb.String()))
	sum := sha256.Sum256([]byte(encoded))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// Verify recomputes the expected check value from every received field
// except the check value itself and compares case-insensitively.
func (s *Signer) Verify(params map[string]string) bool {
	received, ok := receivedCheckValue(params)
	if !ok || received == "" {
		return false
	}
	return strings.EqualFold(received, s.CheckValue(params))
}

func receivedCheckValue(params map[string]string) (string, bool) {
	for k, v := range params {
		if strings.EqualFold(k, checkValueField) {
			return v, true
		}
	}
	return "", false
}

// gatewayEscape applies the gateway's dot-NET flavored URL encoding: the
// characters ()!*-._ stay literal and space becomes '+'.
var dotNetUnescape = strings.NewReplacer(
	"%2D", "-", "%5F", "_", "%2E", ".", "%21", "!",
	"%2A", "*", "%28", "(", "%29", ")",
	"%2d", "-", "%5f", "_", "%2e", ".",
	"%2a", "*",
)

func gatewayEscape(s string) string {
	return dotNetUnescape.Replace(url.QueryEscape(s))
}
