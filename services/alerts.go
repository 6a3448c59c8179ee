package services

import (
	"sync"
	"time"

	"github.com/Nitteswaran/Routely/db"
	"github.com/Nitteswaran/Routely/models"
	"github.com/Nitteswaran/Routely/utils"
	"go.uber.org/zap"
)

// AlertJob is one guardian notification to deliver.
type AlertJob struct {
	Guardian models.Guardian
	Message  string
}

// DispatchAlerts fans alert delivery out over a bounded worker pool so a
// user with many guardians does not serialize the request. Delivery here is
// logging plus a LastNotified stamp; SMS/push transports live outside this
// service.
func DispatchAlerts(jobs []AlertJob, workerCount int) (delivered, failed int) {
	if len(jobs) == 0 {
		return 0, 0
	}
	if workerCount < 1 {
		workerCount = 1
	}

	jobChan := make(chan AlertJob, len(jobs))
	resultChan := make(chan error, len(jobs))
	var wg sync.WaitGroup

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go alertWorker(i, jobChan, resultChan, &wg)
	}

	for _, job := range jobs {
		jobChan <- job
	}
	close(jobChan)

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	for err := range resultChan {
		if err != nil {
			failed++
		} else {
			delivered++
		}
	}

	utils.Logger.Info("guardian_alerts_dispatched",
		zap.Int("delivered", delivered),
		zap.Int("failed", failed),
		zap.Int("workers", workerCount),
	)
	return delivered, failed
}

func alertWorker(id int, jobs <-chan AlertJob, results chan<- error, wg *sync.WaitGroup) {
	defer wg.Done()

	for job := range jobs {
		now := time.Now()
		err := db.DB.Model(&models.Guardian{}).
			Where("id = ?", job.Guardian.ID).
			Update("last_notified", now).Error
		if err != nil {
			utils.Logger.Warn("guardian_alert_failed",
				zap.Int("worker_id", id),
				zap.Uint("guardian_id", job.Guardian.ID),
				zap.Error(err),
			)
			results <- err
			continue
		}

		utils.Logger.Info("guardian_alert_sent",
			zap.Int("worker_id", id),
			zap.Uint("guardian_id", job.Guardian.ID),
			zap.String("contact", job.Guardian.Phone+job.Guardian.Email),
			zap.String("message", job.Message),
		)
		results <- nil
	}
}
