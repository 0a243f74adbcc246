package security

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersistEvent(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	insert := regexp.QuoteMeta("INSERT INTO security_events")
	var null *string

	t.Run("writes details as json and blanks as null", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		details := `{"reason":"daily_quota"}`
		mock.ExpectExec(insert).
			WithArgs("upload_rejected", "portfolio", "test", "warn", null, null, null, null, null, &details, at).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := NewSecurityEventRepository(mock)
		err = repo.PersistEvent(ctx, SecurityEvent{
			Timestamp:   at,
			Service:     "portfolio",
			Environment: "test",
			Level:       "warn",
			Event:       EventUploadRejected,
			Details:     map[string]interface{}{"reason": "daily_quota"},
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("request fields are stored as given", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		subject, ip, agent, reqID := "user_id", "192.0.2.10", "curl/8", "req-1"
		value := HashValue("u-1")
		mock.ExpectExec(insert).
			WithArgs("ownership_denied", "portfolio", "test", "warn", &subject, &value, &ip, &agent, &reqID, null, at).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := NewSecurityEventRepository(mock)
		err = repo.PersistEvent(ctx, SecurityEvent{
			Timestamp:    at,
			Service:      "portfolio",
			Environment:  "test",
			Level:        "warn",
			Event:        EventForbidden,
			SubjectType:  subject,
			SubjectValue: value,
			IP:           ip,
			UserAgent:    agent,
			RequestID:    reqID,
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database failure names the event", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(insert).WithArgs(anyArgs(11)...).WillReturnError(errors.New("relation does not exist"))

		err = NewSecurityEventRepository(mock).PersistEvent(ctx, SecurityEvent{Event: EventLoginFailed, Timestamp: at})
		assert.ErrorContains(t, err, "persist login_failed event")
		assert.ErrorContains(t, err, "relation does not exist")
	})

	t.Run("unencodable details are rejected before the insert", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		err = NewSecurityEventRepository(mock).PersistEvent(ctx, SecurityEvent{
			Event:   EventLoginFailed,
			Details: map[string]interface{}{"bad": make(chan int)},
		})
		assert.ErrorContains(t, err, "encode login_failed details")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}
