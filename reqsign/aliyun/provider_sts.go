package aliyun

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/prn-tf/reqsign-go/reqsign"
	"github.com/prn-tf/reqsign-go/reqsign/internal/pctenc"
)

type stsAssumeRoleResponse struct {
	Credentials struct {
		AccessKeyID     string `json:"AccessKeyId"`
		AccessKeySecret string `json:"AccessKeySecret"`
		SecurityToken   string `json:"SecurityToken"`
		Expiration      string `json:"Expiration"`
	} `json:"Credentials"`
}

// rpcSign implements Alibaba Cloud's classic RPC-style request signature
// (HMAC-SHA1 over a canonicalized, percent-encoded query string), which is
// what the STS AssumeRole/AssumeRoleWithOIDC actions use -- a different,
// older scheme than the OSS V4 signer the rest of this package
// implements, kept here since STS has never migrated off it.
func rpcSign(method, secret string, params url.Values) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var parts []string
	for _, name := range names {
		parts = append(parts, pctenc.Encode(name)+"="+pctenc.Encode(params.Get(name)))
	}
	canonicalized := strings.Join(parts, "&")

	stringToSign := method + "&" + pctenc.Encode("/") + "&" + pctenc.Encode(canonicalized)
	mac := hmac.New(sha1.New, []byte(secret+"&"))
	mac.Write([]byte(stringToSign))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func stsCall(ctx context.Context, rc *reqsign.Context, endpoint string, params url.Values, accessKeySecret string) (*stsAssumeRoleResponse, error) {
	params.Set("Format", "JSON")
	params.Set("Version", "2015-04-01")
	params.Set("SignatureMethod", "HMAC-SHA1")
	params.Set("SignatureVersion", "1.0")
	params.Set("SignatureNonce", fmt.Sprintf("%d", rc.Now().UnixNano()))
	params.Set("Timestamp", rc.Now().UTC().Format("2006-01-02T15:04:05Z"))

	if accessKeySecret != "" {
		params.Set("Signature", rpcSign(http.MethodPost, accessKeySecret, params))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://"+endpoint+"/", strings.NewReader(params.Encode()))
	if err != nil {
		return nil, reqsign.WithSource(reqsign.NewCredentialLoad("aliyun: building STS request failed"), err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := rc.HTTPSend(ctx, req)
	if err != nil {
		return nil, reqsign.WithSource(reqsign.NewCredentialLoad("aliyun: STS request failed"), err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, reqsign.WithSource(reqsign.NewCredentialLoad("aliyun: reading STS response failed"), err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, reqsign.NewCredentialLoad(fmt.Sprintf("aliyun: STS endpoint returned %s: %s", resp.Status, string(body)))
	}

	var parsed stsAssumeRoleResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, reqsign.WithSource(reqsign.NewCredentialLoad("aliyun: STS response was not valid JSON"), err)
	}
	return &parsed, nil
}

func credentialFromSTS(resp *stsAssumeRoleResponse) *Credential {
	cred := &Credential{
		AccessKeyID:     resp.Credentials.AccessKeyID,
		AccessKeySecret: resp.Credentials.AccessKeySecret,
		SecurityToken:   resp.Credentials.SecurityToken,
	}
	if resp.Credentials.Expiration != "" {
		if t, err := time.Parse(time.RFC3339, resp.Credentials.Expiration); err == nil {
			cred.ExpiresAt = &t
		}
	}
	return cred
}

func durationSeconds(d time.Duration) string {
	return fmt.Sprintf("%d", int64(d.Seconds()))
}

func stsEndpoint(rc *reqsign.Context) string {
	if v, ok := rc.EnvVar(envSTSEndpoint); ok && v != "" {
		return v
	}
	return defaultSTSEndpoint
}
