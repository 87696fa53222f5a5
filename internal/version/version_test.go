package version

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()

	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	assert.True(t, strings.HasPrefix(info.String(), "labops "+Version+" ("))
}

func TestInfo_UserAgent(t *testing.T) {
	info := Info{Version: "1.2.0", GitCommit: "abc1234", Platform: "linux/amd64"}

	assert.Equal(t, "labops/1.2.0 (linux/amd64; abc1234)", info.UserAgent())
}
