package jobs

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"asset-ledger-backend/internal/domain"
	"asset-ledger-backend/internal/logger"
)

// SendOverdueAssignmentReminders notifies the assignee and the base commander
// of every ACTIVE assignment whose expected return date has passed, and mails
// a daily digest to the logistics inbox.
func (jr *JobRunner) SendOverdueAssignmentReminders() {
	jr.runWithRecovery("SendOverdueAssignmentReminders", func() {
		ctx := context.Background()
		now := time.Now().UTC()

		overdue, err := jr.store.Assignments().ListOverdue(ctx, now)
		if err != nil {
			logger.Error("Failed to list overdue assignments", "error", err)
			return
		}
		if len(overdue) == 0 {
			logger.Info("No overdue assignments")
			return
		}

		notified := 0
		for _, assignment := range overdue {
			daysOverdue := int64(now.Sub(*assignment.ExpectedReturnDate).Hours() / 24)
			attrs := map[string]string{
				"assignment_id": strconv.FormatInt(assignment.ID, 10),
				"asset_lot_id":  strconv.FormatInt(assignment.AssetLotID, 10),
				"days_overdue":  strconv.FormatInt(daysOverdue, 10),
			}

			if err := jr.notify(ctx, assignment.AssignedToID, assignment.BaseID, assignment, attrs); err != nil {
				logger.Error("Failed to notify assignee",
					"assignment_id", assignment.ID, "error", err)
				continue
			}

			base, err := jr.store.Bases().GetByID(ctx, assignment.BaseID)
			if err == nil && base.CommanderID != nil && *base.CommanderID != assignment.AssignedToID {
				if err := jr.notify(ctx, *base.CommanderID, assignment.BaseID, assignment, attrs); err != nil {
					logger.Error("Failed to notify base commander",
						"assignment_id", assignment.ID, "error", err)
				}
			}
			notified++
		}

		if jr.email != nil && notified > 0 {
			subject := fmt.Sprintf("%d overdue equipment assignments", notified)
			message := fmt.Sprintf("%d equipment assignments are past their expected return date as of %s. Review the ledger for details.",
				notified, now.Format("2006-01-02"))
			if err := jr.email.SendOverdueReminder(ctx, subject, message); err != nil {
				logger.Error("Failed to send overdue digest email", "error", err)
			}
		}

		logger.Info("Sent overdue assignment reminders", "count", notified)
	})
}

func (jr *JobRunner) notify(ctx context.Context, userID, baseID int64, assignment domain.Assignment, attrs map[string]string) error {
	return jr.store.Notifications().Create(ctx, &domain.Notification{
		UserID:     userID,
		BaseID:     &baseID,
		Title:      "Assignment overdue",
		Message:    fmt.Sprintf("Assignment %d of lot %d was due back on %s.", assignment.ID, assignment.AssetLotID, assignment.ExpectedReturnDate.Format("2006-01-02")),
		Attributes: attrs,
	})
}
