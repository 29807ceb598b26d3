package backend

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/handiism/musichelper/internal/model"
)

type stubBackend struct{ name model.Backend }

func (s *stubBackend) Name() model.Backend { return s.name }

type stubSearcher struct{ stubBackend }

func (s *stubSearcher) Search(ctx context.Context, query string, limit int) ([]model.Result, error) {
	return nil, nil
}

func TestRegistry_ConstructOnce(t *testing.T) {
	reg := NewRegistry(nil)
	var calls int32
	reg.Register(model.BackendSoundCloud, func(ctx context.Context) (Backend, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(20 * time.Millisecond)
		return &stubBackend{name: model.BackendSoundCloud}, nil
	})

	var wg sync.WaitGroup
	got := make([]Backend, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b, err := reg.Get(context.Background(), model.BackendSoundCloud)
			if err != nil {
				t.Errorf("Get() error = %v", err)
			}
			got[i] = b
		}(i)
	}
	wg.Wait()

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("factory called %d times, want 1", n)
	}
	for i := range got {
		if got[i] != got[0] {
			t.Fatal("callers received different instances")
		}
	}
}

func TestRegistry_Unavailable(t *testing.T) {
	boom := errors.New("bad credentials")
	reg := NewRegistry(nil)
	reg.Register(model.BackendSoundCloud, nil)
	reg.Register(model.BackendDeezer, func(ctx context.Context) (Backend, error) {
		return nil, boom
	})
	reg.Start(context.Background())

	tests := []struct {
		name    model.Backend
		status  Status
		wantErr error
	}{
		{model.BackendSoundCloud, NotConfigured, nil},
		{model.BackendDeezer, InitFailed, boom},
		{model.BackendYouTubeMusic, NotConfigured, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name.String(), func(t *testing.T) {
			if got := reg.Status(tt.name); got != tt.status {
				t.Errorf("Status() = %v, want %v", got, tt.status)
			}
			_, err := reg.Get(context.Background(), tt.name)
			var su *model.ServiceUnavailableError
			if !errors.As(err, &su) || su.Service != tt.name.String() {
				t.Fatalf("Get() error = %v, want ServiceUnavailableError", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Get() error = %v, want cause %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegistry_Searcher(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register(model.BackendYouTube, func(ctx context.Context) (Backend, error) {
		return &stubSearcher{stubBackend{name: model.BackendYouTube}}, nil
	})
	reg.Register(model.BackendDeezer, func(ctx context.Context) (Backend, error) {
		return &stubBackend{name: model.BackendDeezer}, nil
	})

	if _, err := reg.Searcher(context.Background(), model.BackendYouTube); err != nil {
		t.Errorf("Searcher(yt) error = %v", err)
	}
	if _, err := reg.Searcher(context.Background(), model.BackendDeezer); !errors.Is(err, model.ErrUnsupportedBackend) {
		t.Errorf("Searcher(deezer) error = %v, want ErrUnsupportedBackend", err)
	}

	statuses := reg.Statuses()
	if len(statuses) != 2 || statuses[model.BackendYouTube] != Configured {
		t.Errorf("Statuses() = %v", statuses)
	}
}
