package simulator

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"FJS-go/util"
)

// Logger appends per-round decision traces and run summaries to a log file.
// Writes go through a channel so stepping never blocks on disk.
type Logger struct {
	ctx     context.Context
	enabled bool
	logPath string

	logMsgChan chan *loggerMsg
}

type loggerMsg struct {
	round   string
	summary string
}

func NewLogger(ctx context.Context, enabled bool, logDirPath string) *Logger {
	logger := &Logger{
		ctx:     ctx,
		enabled: enabled,
		logPath: filepath.Join(logDirPath, fmt.Sprintf("fjs_run_%d.log", time.Now().UnixNano())),

		logMsgChan: make(chan *loggerMsg),
	}
	if enabled {
		logger.startLogRoutine()
	}
	return logger
}

func (l *Logger) ReceiveRound(round int, idxs []int, decisions []Decision, rewards []Duration) {
	if !l.enabled {
		return
	}
	b := &strings.Builder{}
	b.WriteString(fmt.Sprintf("round=[%d]\n", round))
	for i, idx := range idxs {
		b.WriteString(util.PrettyF("\tslot=[%d], %v, reward=[%v]\n", idx, decisions[i], rewards[idx]))
	}
	l.logMsgChan <- &loggerMsg{
		round: b.String(),
	}
}

func (l *Logger) ReceiveSummary(summary string) {
	if !l.enabled {
		return
	}
	l.logMsgChan <- &loggerMsg{
		summary: summary,
	}
}

func (l *Logger) roundLogger() func(fp *os.File, round string) {
	return func(fp *os.File, round string) {
		_, err := fp.WriteString(round)
		if err != nil {
			log.Printf("Logger routine, write round trace failed, err=[%v]", err)
		}
	}
}

func (l *Logger) summaryLogger() func(fp *os.File, summary string) {
	loggedSummariesCount := 0
	return func(fp *os.File, summary string) {
		b := &strings.Builder{}
		sp := strings.Repeat("=", 50)
		firstLine := fmt.Sprintf("%s%d%s\n", sp, loggedSummariesCount, sp)
		b.WriteString(firstLine)
		b.WriteString(summary)
		b.WriteString("\n")
		b.WriteString(strings.Repeat("=", len(firstLine)-1) + "\n")
		loggedSummariesCount++
		_, err := fp.WriteString(b.String())
		if err != nil {
			log.Printf("Logger routine, write summary failed, err=[%v]", err)
		}
	}
}

func (l *Logger) startLogRoutine() {
	go func() {
		fp, err := os.OpenFile(l.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, os.ModePerm)
		if err != nil {
			panic(err)
		}

		roundLogger := l.roundLogger()
		summaryLogger := l.summaryLogger()
		for {
			select {
			case msg := <-l.logMsgChan:
				if msg.round != "" {
					roundLogger(fp, msg.round)
				}
				if msg.summary != "" {
					summaryLogger(fp, msg.summary)
				}
			case <-l.ctx.Done():
				log.Printf("Logger exit.")
				return
			}
		}
	}()
}
