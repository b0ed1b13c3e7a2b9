package config

import (
	"fmt"
	"runtime"
)

// 编译时注入变量，通过 -ldflags -X 修改
var (
	// Version 软件版本
	Version string = "0.0.0-dev"

	// CommitID Git 提交哈希
	CommitID string = "HEAD"

	// BuildTime 编译时间
	BuildTime string = "Unknown"
)

// GetFullVersionInfo 获取详细版本信息
func GetFullVersionInfo() string {
	return fmt.Sprintf(
		"Version:  %s\nCommit:   %s\nBuilt:    %s\nGo:       %s %s/%s",
		Version, CommitID, BuildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH,
	)
}
