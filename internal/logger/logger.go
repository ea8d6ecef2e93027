// internal/logger/logger.go

package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	OffLevel
)

var levelNames = map[string]Level{
	"debug": DebugLevel,
	"info":  InfoLevel,
	"warn":  WarnLevel,
	"error": ErrorLevel,
	"off":   OffLevel,
}

var (
	defaultLogger *Logger

	// 预定义带颜色的打印函数
	debugPrintf = color.New(color.FgCyan).SprintfFunc()
	infoPrintf  = color.New(color.FgGreen).SprintfFunc()
	warnPrintf  = color.New(color.FgYellow).SprintfFunc()
	errorPrintf = color.New(color.FgRed).SprintfFunc()
)

type Logger struct {
	logger *log.Logger
	level  Level
	mu     sync.Mutex
}

func init() {
	color.NoColor = false
	defaultLogger = &Logger{
		logger: log.New(os.Stdout, "", log.LstdFlags),
		level:  InfoLevel,
	}
}

// ParseLevel 从配置字符串解析日志级别
func ParseLevel(s string) (Level, error) {
	if level, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return level, nil
	}
	return OffLevel, fmt.Errorf("unknown log level %q", s)
}

func SetLevel(level Level) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.level = level
}

func GetLevel() Level {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	return defaultLogger.level
}

func SetOutput(w io.Writer) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.logger = log.New(w, "", log.LstdFlags)

	// 如果输出不是终端，禁用颜色
	if f, ok := w.(*os.File); !ok || (f != os.Stdout && f != os.Stderr) {
		color.NoColor = true
	}
}

func output(level Level, colorize func(string, ...interface{}) string, prefix, format string, v ...interface{}) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	if defaultLogger.level <= level {
		defaultLogger.logger.Print(colorize(prefix+format, v...))
	}
}

func Debug(format string, v ...interface{}) {
	output(DebugLevel, debugPrintf, "[DEBUG] ", format, v...)
}

func Info(format string, v ...interface{}) {
	output(InfoLevel, infoPrintf, "[INFO] ", format, v...)
}

func Warn(format string, v ...interface{}) {
	output(WarnLevel, warnPrintf, "[WARN] ", format, v...)
}

func Error(format string, v ...interface{}) {
	output(ErrorLevel, errorPrintf, "[ERROR] ", format, v...)
}
