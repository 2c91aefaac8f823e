package notifier

import (
	"fmt"
	"time"

	"timeboss-backend/models"
	"timeboss-backend/utils"
)

// AssignmentMessages builds the crew and client messages for a new assignment.
// A recipient gets an SMS when it has a phone and an e-mail when it has an address.
func AssignmentMessages(job *models.Job, crew *models.Crew, client *models.Client, now time.Time) []models.Message {
	if job == nil || crew == nil {
		return nil
	}
	var out []models.Message

	crewText := fmt.Sprintf("You have been assigned to job #%d: %s.", job.ID, job.Description)
	out = append(out, contactMessages(models.NotificationAssignment, job.ID, crew.Phone, crew.Email,
		fmt.Sprintf("New Job Assigned (#%d)", job.ID), crewText, now)...)

	if client != nil {
		clientText := fmt.Sprintf("Your job (#%d) has been scheduled and assigned to %s.", job.ID, crew.Name)
		out = append(out, contactMessages(models.NotificationAssignment, job.ID, client.Phone, client.Email,
			fmt.Sprintf("Job Scheduled (#%d)", job.ID), clientText, now)...)
	}
	return out
}

// StatusMessages builds the status update sent to the assigned crew and the client
func StatusMessages(job *models.Job, crew *models.Crew, client *models.Client, now time.Time) []models.Message {
	if job == nil {
		return nil
	}
	text := fmt.Sprintf("Job #%d status updated to %s.", job.ID, job.Status)
	subject := fmt.Sprintf("Job Status Update (#%d)", job.ID)

	var out []models.Message
	if crew != nil {
		out = append(out, contactMessages(models.NotificationStatusChange, job.ID, crew.Phone, crew.Email, subject, text, now)...)
	}
	if client != nil {
		out = append(out, contactMessages(models.NotificationStatusChange, job.ID, client.Phone, client.Email, subject, text, now)...)
	}
	return out
}

// EmailMessage builds a single e-mail, used for the contact form, the digest and password resets
func EmailMessage(kind models.NotificationKind, to, subject, body string, now time.Time) models.Message {
	return models.Message{
		ID:        utils.GenerateUUID(),
		Kind:      kind,
		Channel:   models.ChannelEmail,
		To:        to,
		Subject:   subject,
		Body:      body,
		CreatedAt: now,
	}
}

func contactMessages(kind models.NotificationKind, jobID int, phone, email, subject, text string, now time.Time) []models.Message {
	var out []models.Message
	if phone != "" {
		out = append(out, models.Message{
			ID:        utils.GenerateUUID(),
			Kind:      kind,
			Channel:   models.ChannelSMS,
			To:        phone,
			Body:      text,
			JobID:     jobID,
			CreatedAt: now,
		})
	}
	if email != "" {
		msg := EmailMessage(kind, email, subject, text, now)
		msg.JobID = jobID
		out = append(out, msg)
	}
	return out
}
