package version

import (
	"runtime/debug"
)

// GetVersion 从编译信息中解析当前二进制的版本号。
func GetVersion() string {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown (no build info)"
	}

	if buildInfo.Main.Version == "" || buildInfo.Main.Version == "(devel)" {
		return "dev"
	}
	return buildInfo.Main.Version
}
