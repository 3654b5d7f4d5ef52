package reactions

import (
	"errors"
	"fmt"
)

var (
	ErrStorageFault = errors.New("storage fault")
	ErrConflict     = errors.New("reaction changed concurrently")
	ErrNoEmoji      = errors.New("no emoji given")
)

func fault(err error) error {
	if err == nil || errors.Is(err, ErrStorageFault) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStorageFault, err)
}
