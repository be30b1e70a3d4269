package ailog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"answer-grader/config"
	"answer-grader/pkg/logger"
)

// Entry is one remote verification audit record, appended as a JSON line.
type Entry struct {
	Timestamp       time.Time `json:"timestamp"`
	StudentAnswer   string    `json:"student_answer"`
	Variants        []string  `json:"correct_variants"`
	QuestionContext string    `json:"question_context,omitempty"`
	Provider        string    `json:"ai_provider"`
	Model           string    `json:"ai_model"`
	IsCorrect       bool      `json:"is_correct"`
	Confidence      float64   `json:"confidence"`
	Explanation     string    `json:"explanation,omitempty"`
	Method          string    `json:"method"`
	FromCache       bool      `json:"from_cache"`
}

var mu sync.Mutex

// Append writes one record to the audit log. Disabled or failing audit
// logging never affects verification; errors are logged and dropped.
func Append(e Entry) {
	if !config.Cfg.AILog.Enabled {
		return
	}
	path := config.Cfg.AILog.File
	if path == "" {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	line, err := json.Marshal(e)
	if err != nil {
		logger.Error(err, "%v: marshal failed", config.ModuleAILog)
		return
	}

	mu.Lock()
	defer mu.Unlock()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error(err, "%v: mkdir failed", config.ModuleAILog)
			return
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		logger.Error(err, "%v: open failed", config.ModuleAILog)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		logger.Error(err, "%v: write failed", config.ModuleAILog)
	}
}
