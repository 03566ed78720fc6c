package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mmeshcher/earning-bot/internal/model"
)

// FileStore хранит реестр целиком в одном JSON-файле.
type FileStore struct {
	path string
}

// NewFileStore создаёт хранилище поверх файла path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load читает реестр из файла. Если файла нет, создаёт его с пустым объектом.
// При повреждённом содержимом возвращает пустой реестр вместе с ошибкой.
func (s *FileStore) Load(ctx context.Context) (*model.Ledger, error) {
	if err := ctx.Err(); err != nil {
		return model.NewLedger(), err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.writeFile([]byte("{}\n")); err != nil {
			return model.NewLedger(), fmt.Errorf("create ledger file: %w", err)
		}
		return model.NewLedger(), nil
	}
	if err != nil {
		return model.NewLedger(), fmt.Errorf("read ledger file: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return model.NewLedger(), nil
	}

	ledger := model.NewLedger()
	if err := json.Unmarshal(data, ledger); err != nil {
		return model.NewLedger(), fmt.Errorf("%w: %v", ErrLedgerCorrupted, err)
	}

	return ledger, nil
}

// Save перезаписывает файл реестра целиком через временный файл.
func (s *FileStore) Save(ctx context.Context, l *model.Ledger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	if err := s.writeFile(buf.Bytes()); err != nil {
		return fmt.Errorf("write ledger file: %w", err)
	}

	return nil
}

func (s *FileStore) writeFile(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.path)
}

// Close ничего не делает: файл открывается только на время операции.
func (s *FileStore) Close() error {
	return nil
}
