package store

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"example.com/travel-planner/backend/internal/models"
)

// maxRecordSize ограничивает длину одной строки файла; Append не пишет строк длиннее.
const maxRecordSize = 4 * 1024 * 1024

var errRecordTooLarge = errors.New("record exceeds size limit")

// FileStore пишет маршруты в файл JSON Lines, по одной записи на строку.
// Мьютекс защищает только от гонок внутри процесса.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore создает файловое хранилище по указанному пути.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Append дописывает маршрут в конец файла.
func (s *FileStore) Append(ctx context.Context, itinerary models.Itinerary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validate(itinerary); err != nil {
		return err
	}

	payload, err := json.Marshal(itinerary)
	if err != nil {
		return fmt.Errorf("encode itinerary: %w", err)
	}
	if len(payload) > maxRecordSize {
		return fmt.Errorf("%w: %w", ErrInvalid, errRecordTooLarge)
	}
	payload = append(payload, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create store dir: %w", err)
		}
	}

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	// Оборванная предыдущая запись не должна склеиться с новой.
	terminated, err := endsWithNewline(file)
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("inspect store: %w", err)
	}
	if !terminated {
		payload = append([]byte{'\n'}, payload...)
	}

	if _, err := file.Write(payload); err != nil {
		_ = file.Close()
		return fmt.Errorf("append itinerary: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}

	return nil
}

// LoadAll читает все маршруты; битые и слишком длинные строки пропускаются и возвращаются в Skipped.
func (s *FileStore) LoadAll(ctx context.Context) (LoadResult, error) {
	result := LoadResult{Itineraries: []models.Itinerary{}}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return result, nil
		}
		return result, fmt.Errorf("open store: %w", err)
	}
	defer file.Close()

	reader := bufio.NewReaderSize(file, 64*1024)

	var line int64
	for {
		raw, readErr := readRecord(reader)
		if len(raw) == 0 && errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil && !errors.Is(readErr, io.EOF) && !errors.Is(readErr, errRecordTooLarge) {
			return result, fmt.Errorf("read store: %w", readErr)
		}

		line++
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if errors.Is(readErr, errRecordTooLarge) {
			s.skip(&result, line, readErr)
			continue
		}

		raw = bytes.TrimSpace(raw)
		if len(raw) > 0 {
			itinerary, err := decodeRecord(raw)
			if err != nil {
				s.skip(&result, line, err)
			} else {
				result.Itineraries = append(result.Itineraries, itinerary)
			}
		}

		if errors.Is(readErr, io.EOF) {
			break
		}
	}

	return result, nil
}

func (s *FileStore) skip(result *LoadResult, line int64, err error) {
	result.Skipped = append(result.Skipped, RecordError{Position: line, Err: err})
	slog.Warn("skipped malformed itinerary record", slog.String("path", s.path), slog.Int64("line", line), slog.String("error", err.Error()))
}

// readRecord читает строку до '\n'. Строка длиннее maxRecordSize дочитывается до конца и
// отбрасывается с errRecordTooLarge, чтобы следующая запись читалась с начала.
func readRecord(reader *bufio.Reader) ([]byte, error) {
	var line []byte
	tooLarge := false

	for {
		chunk, err := reader.ReadSlice('\n')
		if !tooLarge {
			if len(line)+len(bytes.TrimRight(chunk, "\r\n")) > maxRecordSize {
				tooLarge = true
				line = nil
			} else {
				line = append(line, chunk...)
			}
		}

		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if tooLarge && (err == nil || errors.Is(err, io.EOF)) {
			return nil, errRecordTooLarge
		}
		return line, err
	}
}

func endsWithNewline(file *os.File) (bool, error) {
	info, err := file.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return true, nil
	}

	last := make([]byte, 1)
	if _, err := file.ReadAt(last, info.Size()-1); err != nil {
		return false, err
	}

	return last[0] == '\n', nil
}

// decodeRecord разбирает одну запись и проверяет ее так же, как перед сохранением.
func decodeRecord(raw []byte) (models.Itinerary, error) {
	var itinerary models.Itinerary
	if err := json.Unmarshal(raw, &itinerary); err != nil {
		return models.Itinerary{}, err
	}
	if err := validate(itinerary); err != nil {
		return models.Itinerary{}, err
	}

	return itinerary, nil
}
