package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogRotation(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "viewer.log")

	// lumberjack's smallest MaxSize is 1MB, so write a few MB of entries.
	err := InitWithOptions(Options{
		Level:      "debug",
		Path:       logFile,
		MaxSizeMB:  1,
		MaxBackups: 2,
		MaxAgeDays: 1,
	})
	if err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}

	payload := strings.Repeat("x", 200)
	for i := 0; i < 15000; i++ {
		Sugar.Infof("frame %d: %s", i, payload)
	}
	Sync()

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Fatal("main log file does not exist")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read log dir: %v", err)
	}

	rotated := 0
	for _, e := range entries {
		name := e.Name()
		if name == "viewer.log" || !strings.HasPrefix(name, "viewer") {
			continue
		}
		rotated++
		// viewer-YYYY-MM-DDTHH-MM-SS.SSS.log
		if !strings.Contains(name, "-20") {
			t.Errorf("rotated file %s has no timestamp", name)
		}
	}
	if rotated == 0 {
		t.Error("no rotated files found")
	}
}

func TestLogLevels(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{"error", []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{"warn", []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{"info", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"debug", []string{"ERROR", "WARN", "INFO", "DEBUG"}, nil},
		{"bogus", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(dir, tt.level+".log")
			opts := DefaultOptions(tt.level)
			opts.Console = false
			opts.Path = logFile
			opts.Compress = false
			if err := InitWithOptions(opts); err != nil {
				t.Fatalf("failed to init logger: %v", err)
			}

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")
			Sync()

			levels := readLevels(t, logFile)
			for _, want := range tt.expected {
				if !levels[want] {
					t.Errorf("expected %s entry in log output", want)
				}
			}
			for _, unwanted := range tt.excluded {
				if levels[unwanted] {
					t.Errorf("unexpected %s entry for level %s", unwanted, tt.level)
				}
			}
		})
	}
}

func TestNamedComponent(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "named.log")
	opts := DefaultOptions("info")
	opts.Console = false
	opts.Path = logFile
	if err := InitWithOptions(opts); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}

	Named("zoom").Info("started")
	Sync()

	f, err := os.Open(logFile)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	var entry map[string]any
	if err := json.NewDecoder(f).Decode(&entry); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if entry["component"] != "zoom" {
		t.Errorf("component = %v, want zoom", entry["component"])
	}
	if entry["msg"] != "started" {
		t.Errorf("msg = %v, want started", entry["msg"])
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions("warn")

	if opts.Level != "warn" {
		t.Errorf("Level = %s, want warn", opts.Level)
	}
	if !opts.Console {
		t.Error("expected console output by default")
	}
	if opts.Path != "" {
		t.Errorf("expected no log file by default, got %s", opts.Path)
	}
	if opts.MaxSizeMB != 20 || opts.MaxBackups != 3 || opts.MaxAgeDays != 14 {
		t.Errorf("unexpected rotation defaults: %+v", opts)
	}
}

func readLevels(t *testing.T, path string) map[string]bool {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open log file: %v", err)
	}
	defer f.Close()

	levels := make(map[string]bool)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var entry struct {
			Level string `json:"level"`
		}
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			t.Fatalf("malformed log line %q: %v", sc.Text(), err)
		}
		levels[entry.Level] = true
	}
	return levels
}
