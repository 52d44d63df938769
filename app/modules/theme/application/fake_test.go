package themeservice

import "errors"

// FakeCookieStore is a map-backed CookieStore that records calls.
type FakeCookieStore struct {
	trace   []string
	values  map[string]string
	SetFunc func(name, value string) error
}

func NewFakeCookieStore(initial map[string]string) *FakeCookieStore {
	values := map[string]string{}
	for k, v := range initial {
		values[k] = v
	}
	return &FakeCookieStore{values: values}
}

func (f *FakeCookieStore) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeCookieStore) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeCookieStore) Cookie(name string) (string, bool) {
	f.record("Cookie")
	v, ok := f.values[name]
	return v, ok
}

func (f *FakeCookieStore) SetCookie(name, value string) error {
	f.record("SetCookie:" + value)
	if f.SetFunc != nil {
		if err := f.SetFunc(name, value); err != nil {
			return err
		}
	}
	f.values[name] = value
	return nil
}

var errStoreUnavailable = errors.New("store unavailable")

var _ CookieStore = (*FakeCookieStore)(nil)
