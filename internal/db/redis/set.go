package redis

import (
	"context"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/storedex/internal/db"
)

// toggleScript removes the member if present, adds it otherwise, as one
// atomic server-side step. Concurrent toggles by the same caller can never
// leave duplicates or a torn read-modify-write behind.
var toggleScript = rueidis.NewLuaScript(`
if redis.call('SISMEMBER', KEYS[1], ARGV[1]) == 1 then
  redis.call('SREM', KEYS[1], ARGV[1])
  return 0
end
redis.call('SADD', KEYS[1], ARGV[1])
return 1
`)

// SetToggle atomically toggles member in the set at key.
// Returns true when the member was added.
func (s *Store) SetToggle(ctx context.Context, key, member string) (bool, error) {
	n, err := toggleScript.Exec(ctx, s.client, []string{key}, []string{member}).AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpSetToggle, Err: err}
	}
	return n == 1, nil
}

// SMembers returns all members of the set at key. A missing key yields an
// empty slice.
func (s *Store) SMembers(ctx context.Context, key string) ([]string, error) {
	cmd := s.b().Smembers().Key(key).Build()
	members, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpSMembers, Err: err}
	}
	return members, nil
}

// SIsMember reports set membership.
func (s *Store) SIsMember(ctx context.Context, key, member string) (bool, error) {
	cmd := s.b().Sismember().Key(key).Member(member).Build()
	n, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpSIsMember, Err: err}
	}
	return n == 1, nil
}
