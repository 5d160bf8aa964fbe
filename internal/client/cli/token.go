package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/collabogames/collabo-auth/internal/filex"
)

// loadToken returns "" when no session has been kept.
func loadToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func saveToken(path, token string) error {
	if err := filex.WritePrivate(path, []byte(token+"\n")); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

func removeToken(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}
