package utils

import (
	"fmt"

	"github.com/avct/uasurfer"
)

// UserAgentInfo is the parsed, log-friendly form of a User-Agent header.
type UserAgentInfo struct {
	Browser        string
	BrowserVersion string
	OS             string
	Device         string
}

func ParseUserAgent(raw string) UserAgentInfo {
	ua := uasurfer.Parse(raw)

	return UserAgentInfo{
		Browser:        ua.Browser.Name.StringTrimPrefix(),
		BrowserVersion: UserAgentVersionToString(ua.Browser.Version),
		OS:             ua.OS.Name.StringTrimPrefix(),
		Device:         ua.DeviceType.StringTrimPrefix(),
	}
}

func UserAgentVersionToString(v uasurfer.Version) string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}
