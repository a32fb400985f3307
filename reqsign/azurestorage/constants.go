package azurestorage

const (
	headerDate        = "x-ms-date"
	headerVersion     = "x-ms-version"
	headerContentType = "Content-Type"
	headerAuth        = "Authorization"

	dateRFC1123 = "Mon, 02 Jan 2006 15:04:05 GMT"
)

// canonicalizedHeaderPrefix marks the headers that get folded into the
// sorted x-ms-* block of the Shared Key string to sign.
const canonicalizedHeaderPrefix = "x-ms-"

// fixedCanonicalHeaders lists, in order, the well-known headers every
// Shared Key signature accounts for as a fixed line-item, present or not.
var fixedCanonicalHeaders = []string{
	"Content-Encoding",
	"Content-Language",
	"Content-Length",
	"Content-MD5",
	"Content-Type",
	"Date",
	"If-Modified-Since",
	"If-Match",
	"If-None-Match",
	"If-Unmodified-Since",
	"Range",
}
