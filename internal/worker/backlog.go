package worker

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"krishiconnect/internal/model"
)

// StatsSource reports moderation totals.
type StatsSource interface {
	Stats() model.ReportStats
}

// BacklogJob periodically logs the moderation backlog.
type BacklogJob struct {
	stats StatsSource
	cron  *cron.Cron
}

// NewBacklogJob schedules a backlog check on schedule (standard cron or "@every 15m").
func NewBacklogJob(stats StatsSource, schedule string) (*BacklogJob, error) {
	job := &BacklogJob{
		stats: stats,
		cron:  cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger))),
	}
	if _, err := job.cron.AddFunc(schedule, job.Run); err != nil {
		return nil, fmt.Errorf("schedule backlog job %q: %w", schedule, err)
	}
	return job, nil
}

// Run logs one snapshot of the report counters.
func (j *BacklogJob) Run() {
	s := j.stats.Stats()
	evt := log.Info()
	if s.Pending > 0 {
		evt = log.Warn()
	}
	evt.Int("pending", s.Pending).
		Int("accepted", s.Accepted).
		Int("declined", s.Declined).
		Int("post_reports", s.PostReports).
		Int("comment_reports", s.CommentReports).
		Msg("[Backlog] Moderation queue")
}

func (j *BacklogJob) Start() {
	j.cron.Start()
}

// Stop waits for a running check to finish.
func (j *BacklogJob) Stop() {
	<-j.cron.Stop().Done()
}
