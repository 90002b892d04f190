package version

import "strconv"

// Build metadata, overridable via -ldflags. BuildDate is milliseconds since
// the Unix epoch, as a string so the linker can set it.
var (
	AppName       = "Amiquin"
	AppFullName   = "Amiquin — adaptive engagement bot"
	AppVersion    = "dev"
	BuildDate     = "0"
	SourceCodeURL = "https://github.com/amiquin/amiquin"
)

// BuildDateMs returns BuildDate as int64 milliseconds, 0 when unset or
// malformed.
func BuildDateMs() int64 {
	ms, err := strconv.ParseInt(BuildDate, 10, 64)
	if err != nil {
		return 0
	}
	return ms
}
