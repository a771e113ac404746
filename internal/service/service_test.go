package service

import (
	"context"
	"io"
	"testing"
	"time"

	"hospital-frontdesk/internal/domain/entity"
	"hospital-frontdesk/internal/repository"
	"hospital-frontdesk/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestTokenStore_StoreValidateRevoke(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)
	store := NewTokenStore(client)

	require.NoError(t, store.Store(ctx, "0002Pat", "jti-1", time.Hour))
	assert.True(t, mr.Exists("access_token:0002Pat:jti-1"))
	assert.NoError(t, store.Validate(ctx, "0002Pat", "jti-1"))

	assert.ErrorIs(t, store.Validate(ctx, "0002Pat", "jti-2"), ErrTokenRevoked)

	require.NoError(t, store.Revoke(ctx, "0002Pat", "jti-1"))
	assert.ErrorIs(t, store.Validate(ctx, "0002Pat", "jti-1"), ErrTokenRevoked)
}

func TestTokenStore_Expires(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)
	store := NewTokenStore(client)

	require.NoError(t, store.Store(ctx, "0001Avd", "jti", time.Minute))
	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, store.Validate(ctx, "0001Avd", "jti"), ErrTokenRevoked)
}

func newTicketService(t *testing.T, now time.Time) (*TicketService, *miniredis.Miniredis) {
	db := testutil.NewDB(t)
	mr, client := newRedis(t)
	svc := NewTicketService(db, client, quietLogger(), repository.NewAppointmentRepository(), time.UTC)
	svc.now = func() time.Time { return now }
	return svc, mr
}

func TestTicketService_NextIncrementsPerDay(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)
	svc, mr := newTicketService(t, now)

	first, err := svc.Next(ctx)
	require.NoError(t, err)
	second, err := svc.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)

	assert.True(t, mr.Exists("queue:ticket:20261017"))
	assert.Equal(t, 38*time.Hour, mr.TTL("queue:ticket:20261017"))

	svc.now = func() time.Time { return now.Add(24 * time.Hour) }
	next, err := svc.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, next)
}

func TestTicketService_SyncOnStartupUsesTodaysMax(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)
	svc, _ := newTicketService(t, now)

	seven, fifty := 7, 50
	require.NoError(t, svc.db.Create(&entity.Appointment{
		PatientID: "0002Pat", DoctorID: "0001Avd", Status: entity.AppointmentStatusWaiting,
		TicketNumber: &seven, CreatedAt: now.Add(-time.Hour),
	}).Error)
	require.NoError(t, svc.db.Create(&entity.Appointment{
		PatientID: "0002Pat", DoctorID: "0001Avd", Status: entity.AppointmentStatusCompleted,
		TicketNumber: &fifty, CreatedAt: now.Add(-24 * time.Hour),
	}).Error)

	require.NoError(t, svc.SyncOnStartup(ctx))

	next, err := svc.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, next)
}

func TestTicketService_SyncNeverLowersCounter(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)
	svc, mr := newTicketService(t, now)

	require.NoError(t, mr.Set("queue:ticket:20261017", "20"))
	require.NoError(t, svc.SyncOnStartup(ctx))

	next, err := svc.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 21, next)
}

func TestTicketService_RedisDown(t *testing.T) {
	now := time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)
	svc, mr := newTicketService(t, now)
	mr.Close()

	_, err := svc.Next(context.Background())
	assert.Error(t, err)
	assert.Error(t, svc.SyncOnStartup(context.Background()))
}

func TestAuditService_Record(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repository.NewAuditLogRepository()
	svc := NewAuditService(quietLogger(), repo)

	require.NoError(t, svc.Record(ctx, db, "0002Pat", entity.AuditActionUserLogin, entity.JSON{"role": "patient"}))
	require.NoError(t, svc.LogCreate(ctx, db, "0001Avd", entity.AuditActionPrescriptionCreate, "prescription", "1", map[string]string{"patient_id": "0002Pat"}))
	require.NoError(t, svc.Record(ctx, db, "", entity.AuditActionUserRegister, nil))

	logins, err := repo.FindByAction(db, entity.AuditActionUserLogin)
	require.NoError(t, err)
	require.Len(t, logins, 1)
	require.NotNil(t, logins[0].UserID)
	assert.Equal(t, "0002Pat", *logins[0].UserID)

	created, err := repo.FindByAction(db, entity.AuditActionPrescriptionCreate)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "prescription", created[0].Metadata["entity"])
	assert.Equal(t, "1", created[0].Metadata["entity_id"])

	anonymous, err := repo.FindByAction(db, entity.AuditActionUserRegister)
	require.NoError(t, err)
	require.Len(t, anonymous, 1)
	assert.Nil(t, anonymous[0].UserID)
}
