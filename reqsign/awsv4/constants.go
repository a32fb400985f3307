package awsv4

import "time"

const (
	// signAlgorithm identifies AWS Signature Version 4.
	signAlgorithm = "AWS4-HMAC-SHA256"

	// iso8601Basic is the full request datetime format used in the
	// Authorization header and X-Amz-Date.
	iso8601Basic = "20060102T150405Z"

	// yyyymmdd is the short date format used in the credential scope.
	yyyymmdd = "20060102"

	// terminationString closes the HMAC key-derivation chain.
	terminationString = "aws4_request"

	// emptyStringSHA256 is the SHA-256 hash of an empty payload.
	emptyStringSHA256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

	// unsignedPayload marks a request body that is excluded from the
	// signature computation.
	unsignedPayload = "UNSIGNED-PAYLOAD"

	// serviceS3 gets the single-percent-encoding canonical URI treatment;
	// every other service is double-encoded.
	serviceS3 = "s3"
)

const (
	headerAuthorization   = "Authorization"
	headerDate            = "X-Amz-Date"
	headerContentSHA256   = "X-Amz-Content-Sha256"
	headerSecurityToken   = "X-Amz-Security-Token"
	queryAlgorithm        = "X-Amz-Algorithm"
	queryCredential       = "X-Amz-Credential"
	queryDate             = "X-Amz-Date"
	queryExpires          = "X-Amz-Expires"
	querySignedHeaders    = "X-Amz-SignedHeaders"
	querySecurityToken    = "X-Amz-Security-Token"
	querySignature        = "X-Amz-Signature"
)

// DefaultDuration is the STS AssumeRole/WebIdentity session duration used
// when the caller doesn't override it.
const DefaultDuration = 1 * time.Hour

// DefaultRoleSessionName is used when neither the caller nor the
// environment supplies one.
const DefaultRoleSessionName = "reqsign"
