package auth

import (
	"os"
	"testing"

	"casino-server/common/logger"
)

func TestMain(m *testing.M) {
	logger.InitLogger()
	os.Exit(m.Run())
}
