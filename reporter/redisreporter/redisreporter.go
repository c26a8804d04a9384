/*
Package redisreporter provides a subgroups.Reporter that stores subgroups
in a redis sorted set scored by their quality.
*/
package redisreporter

import (
	"fmt"

	subgroups "github.com/antoniolopezmc/subgroups-sub001"
	"github.com/antoniolopezmc/subgroups-sub001/reporter"
	redis "gopkg.in/redis.v5"
)

/*
Encoder is an interface for objects that encode subgroups into the
members stored in the sorted set.
*/
type Encoder interface {
	Encode(*subgroups.Subgroup) ([]byte, error)
}

// EncoderFunc wraps a function to implement the Encoder interface
type EncoderFunc func(*subgroups.Subgroup) ([]byte, error)

// Encode invokes the EncoderFunc
func (ef EncoderFunc) Encode(sg *subgroups.Subgroup) ([]byte, error) {
	return ef(sg)
}

type redisReporter struct {
	rc  *redis.Client
	key string
	enc Encoder
}

/*
New takes a redis client and a key and returns a reporter that adds every
subgroup, encoded as JSON, to the sorted set at the key with its quality
as score. Use Reset to remove subgroups stored at the key by previous runs.
*/
func New(rc *redis.Client, key string) subgroups.Reporter {
	return NewWithEncoder(rc, key, EncoderFunc(reporter.EncodeJSON))
}

/*
NewWithEncoder works like New but encodes subgroups with the given
encoder.
*/
func NewWithEncoder(rc *redis.Client, key string, enc Encoder) subgroups.Reporter {
	return &redisReporter{rc, key, enc}
}

func (rr *redisReporter) Report(sg *subgroups.Subgroup) error {
	if rr.key == "" {
		return fmt.Errorf("storing subgroup %v in redis: empty key", sg.Pattern)
	}
	data, err := rr.enc.Encode(sg)
	if err != nil {
		return fmt.Errorf("storing subgroup %v: encoding subgroup: %v", sg.Pattern, err)
	}
	_, err = rr.rc.ZAdd(rr.key, redis.Z{Score: sg.Quality, Member: string(data)}).Result()
	if err != nil {
		return fmt.Errorf("storing subgroup %v in redis: %v", sg.Pattern, err)
	}
	return nil
}

func (rr *redisReporter) Close() error {
	return nil
}

/*
Reset removes the sorted set at the key from redis.
*/
func Reset(rc *redis.Client, key string) error {
	_, err := rc.Del(key).Result()
	if err != nil {
		return fmt.Errorf("removing %q from redis: %v", key, err)
	}
	return nil
}

/*
Best takes a redis client, a key, a number k and a function to decode
stored members, like reporter.DecodeJSON, and returns the k subgroups stored
at the key with the highest quality, best first.
*/
func Best(rc *redis.Client, key string, k int64, decode func([]byte) (*subgroups.Subgroup, error)) ([]*subgroups.Subgroup, error) {
	members, err := rc.ZRevRange(key, 0, k-1).Result()
	if err != nil {
		return nil, fmt.Errorf("retrieving subgroups from %q: %v", key, err)
	}
	result := make([]*subgroups.Subgroup, 0, len(members))
	for _, m := range members {
		sg, err := decode([]byte(m))
		if err != nil {
			return nil, fmt.Errorf("retrieving subgroups from %q: decoding %q: %v", key, m, err)
		}
		result = append(result, sg)
	}
	return result, nil
}
