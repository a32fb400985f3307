// Package aliyun implements Alibaba Cloud OSS's V4 signing scheme, an
// AWS SigV4 variant with an "aliyun_v4_request" termination string and
// x-oss-* header names in place of x-amz-*.
package aliyun

import "time"

const (
	signAlgorithm      = "OSS4-HMAC-SHA256"
	iso8601Basic       = "20060102T150405Z"
	yyyymmdd           = "20060102"
	terminationString  = "aliyun_v4_request"
	emptyStringSHA256  = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	unsignedPayload    = "UNSIGNED-PAYLOAD"
	headerDate         = "x-oss-date"
	headerSecurityTok  = "x-oss-security-token"
	headerContentSHA   = "x-oss-content-sha256"
	queryAlgorithm     = "x-oss-signature-version"
	queryCredential    = "x-oss-credential"
	queryDate          = "x-oss-date"
	queryExpires       = "x-oss-expires"
	querySignedHeaders = "x-oss-signed-headers"
	querySecurityTok   = "x-oss-security-token"
	querySignature     = "x-oss-signature"

	envAccessKeyID     = "ALIBABA_CLOUD_ACCESS_KEY_ID"
	envAccessKeySecret = "ALIBABA_CLOUD_ACCESS_KEY_SECRET"
	envSecurityToken   = "ALIBABA_CLOUD_SECURITY_TOKEN"
	envRoleARN         = "ALIBABA_CLOUD_ROLE_ARN"
	envOIDCProviderARN = "ALIBABA_CLOUD_OIDC_PROVIDER_ARN"
	envOIDCTokenFile   = "ALIBABA_CLOUD_OIDC_TOKEN_FILE"
	envSTSEndpoint     = "ALIBABA_CLOUD_STS_ENDPOINT"

	defaultSTSEndpoint    = "sts.aliyuncs.com"
	defaultRoleSessionName = "reqsign"
	defaultDuration        = 1 * time.Hour
)
