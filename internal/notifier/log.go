package notifier

import (
	"context"
	"log"
	"os"

	"careers-portal/internal/model"
)

// LogNotifier 仅打印提交记录，适合开发阶段使用。
type LogNotifier struct {
	logger *log.Logger
}

// NewLogNotifier 创建日志通知器，未提供 logger 时默认输出到标准输出。
func NewLogNotifier(logger *log.Logger) *LogNotifier {
	if logger == nil {
		logger = log.New(os.Stdout, "[notify] ", log.LstdFlags)
	}
	return &LogNotifier{logger: logger}
}

// Notify 打印提交信息。
func (n LogNotifier) Notify(ctx context.Context, app model.Application, job *model.JobPost) error {
	title := "unknown post"
	if job != nil {
		title = job.Title
	}
	n.logger.Printf("application %s submitted by %s for %s", app.Reference, app.CandidateID, title)
	return nil
}
