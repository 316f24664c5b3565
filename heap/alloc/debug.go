package alloc

import (
	"fmt"
	"os"

	"github.com/joshuapare/heapkit/internal/logger"
)

const debugAlloc = false

var (
	logAlloc   = os.Getenv("HEAPKIT_LOG_ALLOC") != ""
	checkAlloc = os.Getenv("HEAPKIT_CHECK_ALLOC") != ""
)

func debugLogf(format string, args ...any) {
	if debugAlloc {
		fmt.Fprintf(os.Stderr, "[ALLOC] "+format+"\n", args...)
	}
	if logAlloc {
		logger.Error(fmt.Sprintf(format, args...))
	}
}
