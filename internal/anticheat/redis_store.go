package anticheat

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/waypointlabs/prizehunt/internal/domain"
)

const (
	attemptKeyPrefix = "anticheat:attempts:"
	stateKeyPrefix   = "anticheat:state:"

	// attemptWindow is the sliding window the frequency gate counts over.
	attemptWindow = time.Minute

	// stateTTL bounds how long the last observation is kept. Long enough for
	// velocity checks to work across a play session, short enough that the
	// store stays ephemeral.
	stateTTL = 6 * time.Hour
)

// RedisStateStore keeps anti-cheat state in Redis hashes and counters.
type RedisStateStore struct {
	client *redis.Client
}

// NewRedisStateStore creates a state store backed by the given Redis client.
func NewRedisStateStore(client *redis.Client) *RedisStateStore {
	return &RedisStateStore{client: client}
}

// IncrementAttempts records the attempt in a per-user sorted set keyed by
// timestamp and returns how many attempts fall inside the trailing window.
// A sorted set rather than a bucketed counter: the count must slide with the
// attempt, not reset at bucket boundaries, or a burst straddling a boundary
// would double the effective limit.
func (s *RedisStateStore) IncrementAttempts(ctx context.Context, userID string, now time.Time) (int64, error) {
	key := attemptKeyPrefix + userID
	cutoff := now.Add(-attemptWindow)

	var card *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(cutoff.UnixMilli(), 10))
		p.ZAdd(ctx, key, redis.Z{
			Score:  float64(now.UnixMilli()),
			Member: strconv.FormatInt(now.UnixNano(), 10),
		})
		card = p.ZCard(ctx, key)
		// Window plus slack for clock skew between app instances.
		p.Expire(ctx, key, attemptWindow+time.Minute)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return card.Val(), nil
}

func (s *RedisStateStore) GetState(ctx context.Context, userID string) (State, error) {
	data, err := s.client.HGetAll(ctx, stateKeyPrefix+userID).Result()
	if err != nil {
		return State{}, err
	}
	if len(data) == 0 {
		return State{}, nil
	}

	state := State{DeviceFingerprint: data["device"]}

	latRaw, latOK := data["lat"]
	lngRaw, lngOK := data["lng"]
	if latOK && lngOK {
		lat, latErr := strconv.ParseFloat(latRaw, 64)
		lng, lngErr := strconv.ParseFloat(lngRaw, 64)
		if latErr == nil && lngErr == nil {
			state.LastLocation = &domain.GeoPoint{Lat: lat, Lng: lng}
		}
	}
	if raw, ok := data["at"]; ok && raw != "" {
		if unixMilli, convErr := strconv.ParseInt(raw, 10, 64); convErr == nil && unixMilli > 0 {
			t := time.UnixMilli(unixMilli).UTC()
			state.LastAttemptAt = &t
		}
	}
	return state, nil
}

func (s *RedisStateStore) RecordObservation(ctx context.Context, userID string, obs Observation) error {
	key := stateKeyPrefix + userID
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key,
			"device", obs.DeviceFingerprint,
			"lat", strconv.FormatFloat(obs.Location.Lat, 'f', -1, 64),
			"lng", strconv.FormatFloat(obs.Location.Lng, 'f', -1, 64),
			"at", obs.At.UnixMilli(),
		)
		p.Expire(ctx, key, stateTTL)
		return nil
	})
	return err
}
