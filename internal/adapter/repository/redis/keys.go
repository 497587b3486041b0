package redis

// keyspace namespaces every key this service writes, so the instance can be
// shared with other applications.
type keyspace string

const (
	cacheKeyspace       keyspace = "creditbook:cache:"
	idempotencyKeyspace keyspace = "creditbook:idempotency:"
)

func (k keyspace) key(name string) string {
	return string(k) + name
}
