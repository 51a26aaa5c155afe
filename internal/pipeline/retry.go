package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
)

var errStillGrowing = errors.New("file is still being written")

// WaitStable blocks until the file at path reports the same non-zero size on
// two consecutive checks spaced by settle. It gives up after attempts checks.
func WaitStable(ctx context.Context, path string, settle time.Duration, attempts int) (int64, error) {
	if attempts < 2 {
		attempts = 2
	}
	last := int64(-1)
	err := retry.Do(
		func() error {
			info, err := os.Stat(path)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			if info.IsDir() {
				return retry.Unrecoverable(fmt.Errorf("%s is a directory", path))
			}
			size := info.Size()
			if size == 0 || size != last {
				last = size
				return errStillGrowing
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(attempts)),
		retry.Delay(settle),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return 0, fmt.Errorf("wait for %s: %w", path, err)
	}
	return last, nil
}
