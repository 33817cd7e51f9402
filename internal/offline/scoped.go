package offline

import "context"

type scoped struct {
	inner Store
	scope string
}

// Scoped prefixes every key with scope so sessions sharing one backend
// never see each other's records. An empty scope returns s unchanged.
func Scoped(s Store, scope string) Store {
	if scope == "" {
		return s
	}
	return &scoped{inner: s, scope: scope + "|"}
}

func (s *scoped) Get(ctx context.Context, ns, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, ns, s.scope+key)
}

func (s *scoped) Set(ctx context.Context, ns, key string, value []byte) error {
	return s.inner.Set(ctx, ns, s.scope+key, value)
}

func (s *scoped) Delete(ctx context.Context, ns, key string) error {
	return s.inner.Delete(ctx, ns, s.scope+key)
}
