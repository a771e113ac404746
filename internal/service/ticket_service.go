package service

import (
	"context"
	"fmt"
	"time"

	"hospital-frontdesk/internal/domain/repository"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RedisTicketKeyPrefix is followed by the local date, e.g. queue:ticket:20261017
const RedisTicketKeyPrefix = "queue:ticket:"

const redisSyncTimeout = 5 * time.Second

// nextTicketScript increments today's counter and makes sure it expires
// the day after, in one round trip.
var nextTicketScript = redis.NewScript(`
	local n = redis.call('INCR', KEYS[1])
	if redis.call('TTL', KEYS[1]) < 0 then
		redis.call('EXPIRE', KEYS[1], ARGV[1])
	end
	return n
`)

// syncTicketScript raises the counter to ARGV[1] but never lowers it
var syncTicketScript = redis.NewScript(`
	local current = tonumber(redis.call('GET', KEYS[1]) or '0')
	local floor = tonumber(ARGV[1])
	if floor > current then
		redis.call('SET', KEYS[1], floor, 'EX', ARGV[2])
		return floor
	end
	return current
`)

// TicketService hands out human-facing ticket numbers that restart every day
type TicketService struct {
	db              *gorm.DB
	redisClient     *redis.Client
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	location        *time.Location
	now             func() time.Time
}

func NewTicketService(db *gorm.DB, redisClient *redis.Client, log *logrus.Logger, appointmentRepo repository.AppointmentRepository, location *time.Location) *TicketService {
	if location == nil {
		location = time.UTC
	}
	return &TicketService{
		db:              db,
		redisClient:     redisClient,
		log:             log,
		appointmentRepo: appointmentRepo,
		location:        location,
		now:             time.Now,
	}
}

// Next returns today's next ticket number
func (s *TicketService) Next(ctx context.Context) (int, error) {
	today := s.now().In(s.location)
	key := s.key(today)

	n, err := nextTicketScript.Run(ctx, s.redisClient, []string{key}, int(s.ttl(today).Seconds())).Int()
	if err != nil {
		s.log.Warnf("Failed Lua script nextTicket for %s: %+v", key, err)
		return 0, fmt.Errorf("lua next_ticket for %s: %w", key, err)
	}
	return n, nil
}

// SyncOnStartup lifts today's counter to the highest ticket already stored,
// so a flushed Redis never hands out a number twice.
func (s *TicketService) SyncOnStartup(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, redisSyncTimeout)
	defer cancel()

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		s.log.Warnf("Redis is not available, skipping ticket sync: %+v", err)
		return fmt.Errorf("redis ping failed: %w", err)
	}

	today := s.now().In(s.location)
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, s.location)

	max, err := s.appointmentRepo.MaxTicketNumberSince(s.db.WithContext(ctx), start)
	if err != nil {
		s.log.Errorf("Failed to query max ticket number: %+v", err)
		return fmt.Errorf("query max ticket number: %w", err)
	}

	key := s.key(today)
	current, err := syncTicketScript.Run(ctx, s.redisClient, []string{key}, max, int(s.ttl(today).Seconds())).Int()
	if err != nil {
		s.log.Errorf("Failed to sync ticket counter %s: %+v", key, err)
		return fmt.Errorf("sync ticket counter %s: %w", key, err)
	}

	s.log.Infof("Ticket counter synced: key=%s, value=%d", key, current)
	return nil
}

func (s *TicketService) key(day time.Time) string {
	return RedisTicketKeyPrefix + day.Format("20060102")
}

// ttl keeps the counter until the end of the following day
func (s *TicketService) ttl(day time.Time) time.Duration {
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.location)
	ttl := midnight.AddDate(0, 0, 2).Sub(day)
	if ttl <= 0 {
		return time.Minute
	}
	return ttl
}
