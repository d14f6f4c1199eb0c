package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/cinelist/cinelist-go/internal/lock"
	"github.com/cinelist/cinelist-go/internal/model"
	"github.com/cinelist/cinelist-go/internal/repository/memory"
)

func newTestStatusService() (*StatusService, *memory.EntryRepo) {
	store := memory.NewEntryRepo()
	return NewStatusService(store, lock.NewKeyed()), store
}

func boolPtr(b bool) *bool { return &b }

func statusRequest(tmdbID string, list model.ListType, status bool) model.SetStatusRequest {
	return model.SetStatusRequest{
		TMDBID:   json.Number(tmdbID),
		ListType: list,
		Status:   boolPtr(status),
	}
}

func TestSetStatus_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  model.SetStatusRequest
		want error
	}{
		{
			name: "missing tmdb_id",
			req:  model.SetStatusRequest{ListType: model.ListFavorite, Status: boolPtr(true)},
			want: ErrTMDBIDRequired,
		},
		{
			name: "zero tmdb_id",
			req:  statusRequest("0", model.ListFavorite, true),
			want: ErrInvalidTMDBID,
		},
		{
			name: "negative tmdb_id",
			req:  statusRequest("-7", model.ListFavorite, true),
			want: ErrInvalidTMDBID,
		},
		{
			name: "fractional tmdb_id",
			req:  statusRequest("4.5", model.ListFavorite, true),
			want: ErrInvalidTMDBID,
		},
		{
			name: "unknown list type",
			req:  statusRequest("42", "is_loved", true),
			want: ErrInvalidListType,
		},
		{
			name: "missing list type",
			req:  statusRequest("42", "", true),
			want: ErrInvalidListType,
		},
		{
			name: "missing status",
			req:  model.SetStatusRequest{TMDBID: "42", ListType: model.ListWatched},
			want: ErrStatusRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestStatusService()

			_, err := svc.SetStatus(context.Background(), "u1", tt.req)
			if err != tt.want {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if n := store.Count("u1"); n != 0 {
				t.Errorf("store touched by invalid request: %d entries", n)
			}
		})
	}
}

func TestSetStatus_Scenario(t *testing.T) {
	svc, store := newTestStatusService()
	ctx := context.Background()
	title := "Heat"

	fav := statusRequest("42", model.ListFavorite, true)
	fav.MovieData = &model.MovieSnapshot{Title: &title}
	res, err := svc.SetStatus(ctx, "u1", fav)
	if err != nil {
		t.Fatalf("favorite: %v", err)
	}
	if res.Deleted || !res.Entry.IsFavorite || res.Entry.IsWatchLater || res.Entry.IsWatched {
		t.Fatalf("after favorite: %+v", res.Entry)
	}
	if res.Entry.Title != "Heat" || res.Entry.TMDBID != 42 || res.Entry.User != "u1" {
		t.Errorf("unexpected entry fields: %+v", res.Entry)
	}

	res, err = svc.SetStatus(ctx, "u1", statusRequest("42", model.ListWatched, true))
	if err != nil {
		t.Fatalf("watched: %v", err)
	}
	if !res.Entry.IsFavorite || res.Entry.IsWatchLater || !res.Entry.IsWatched {
		t.Fatalf("after watched: %+v", res.Entry)
	}

	res, err = svc.SetStatus(ctx, "u1", statusRequest("42", model.ListFavorite, false))
	if err != nil {
		t.Fatalf("unfavorite: %v", err)
	}
	if res.Entry.IsFavorite || res.Entry.IsWatchLater || !res.Entry.IsWatched {
		t.Fatalf("after unfavorite: %+v", res.Entry)
	}

	res, err = svc.SetStatus(ctx, "u1", statusRequest("42", model.ListWatched, false))
	if err != nil {
		t.Fatalf("unwatch: %v", err)
	}
	if !res.Deleted || res.TMDBID != 42 || res.Entry != nil {
		t.Fatalf("expected deletion of 42, got %+v", res)
	}
	if n := store.Count("u1"); n != 0 {
		t.Errorf("expected no stored entries, got %d", n)
	}
}

func TestSetStatus_MutualExclusion(t *testing.T) {
	svc, _ := newTestStatusService()
	ctx := context.Background()

	if _, err := svc.SetStatus(ctx, "u1", statusRequest("7", model.ListWatchLater, true)); err != nil {
		t.Fatal(err)
	}
	res, err := svc.SetStatus(ctx, "u1", statusRequest("7", model.ListWatched, true))
	if err != nil {
		t.Fatal(err)
	}
	if res.Entry.IsWatchLater || !res.Entry.IsWatched {
		t.Errorf("watched should clear watch later: %+v", res.Entry)
	}

	res, err = svc.SetStatus(ctx, "u1", statusRequest("7", model.ListWatchLater, true))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Entry.IsWatchLater || res.Entry.IsWatched {
		t.Errorf("watch later should clear watched: %+v", res.Entry)
	}
}

func TestSetStatus_FalseOnMissingEntryCreatesNothing(t *testing.T) {
	svc, store := newTestStatusService()

	res, err := svc.SetStatus(context.Background(), "u1", statusRequest("99", model.ListFavorite, false))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Deleted {
		t.Errorf("expected deleted result, got %+v", res)
	}
	if n := store.Count("u1"); n != 0 {
		t.Errorf("expected no stored entries, got %d", n)
	}
}

func TestSetStatus_Idempotent(t *testing.T) {
	svc, _ := newTestStatusService()
	ctx := context.Background()
	req := statusRequest("5", model.ListWatchLater, true)

	first, err := svc.SetStatus(ctx, "u1", req)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.SetStatus(ctx, "u1", req)
	if err != nil {
		t.Fatal(err)
	}
	if *first.Entry != *second.Entry {
		t.Errorf("repeated request changed the entry: %+v vs %+v", first.Entry, second.Entry)
	}
}

func TestSetStatus_SnapshotOnlyOnCreate(t *testing.T) {
	svc, _ := newTestStatusService()
	ctx := context.Background()
	first, second := "First", "Second"
	rating := 7.5

	req := statusRequest("11", model.ListFavorite, true)
	req.MovieData = &model.MovieSnapshot{Title: &first, Rating: &rating}
	if _, err := svc.SetStatus(ctx, "u1", req); err != nil {
		t.Fatal(err)
	}

	req = statusRequest("11", model.ListWatched, true)
	req.MovieData = &model.MovieSnapshot{Title: &second}
	res, err := svc.SetStatus(ctx, "u1", req)
	if err != nil {
		t.Fatal(err)
	}
	if res.Entry.Title != first || res.Entry.Rating != rating {
		t.Errorf("snapshot overwritten: %+v", res.Entry)
	}
}

func TestSetStatus_DefaultTitle(t *testing.T) {
	svc, _ := newTestStatusService()

	res, err := svc.SetStatus(context.Background(), "u1", statusRequest("12", model.ListFavorite, true))
	if err != nil {
		t.Fatal(err)
	}
	if res.Entry.Title != model.DefaultTitle || res.Entry.PosterPath != "" || res.Entry.Rating != 0 {
		t.Errorf("unexpected defaults: %+v", res.Entry)
	}
}

func TestSetStatus_ConcurrentCreatesOneEntry(t *testing.T) {
	svc, store := newTestStatusService()
	ctx := context.Background()
	lists := []model.ListType{model.ListFavorite, model.ListWatchLater, model.ListWatched}

	var wg sync.WaitGroup
	errs := make(chan error, 60)
	for i := 0; i < 60; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.SetStatus(ctx, "u1", statusRequest("42", lists[i%len(lists)], true))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent SetStatus: %v", err)
		}
	}
	if n := store.Count("u1"); n != 1 {
		t.Fatalf("expected exactly one entry, got %d", n)
	}

	entry, err := svc.GetEntry(ctx, "u1", "42")
	if err != nil {
		t.Fatal(err)
	}
	if !entry.IsFavorite {
		t.Error("favorite lost under concurrency")
	}
	if entry.IsWatchLater == entry.IsWatched {
		t.Errorf("exactly one of watch later/watched expected: %+v", entry)
	}
}

func TestListEntries(t *testing.T) {
	svc, _ := newTestStatusService()
	ctx := context.Background()

	empty, err := svc.ListEntries(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected non-nil empty slice, got %v", empty)
	}

	for _, id := range []string{"1", "2", "3"} {
		if _, err := svc.SetStatus(ctx, "u1", statusRequest(id, model.ListFavorite, true)); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := svc.SetStatus(ctx, "u2", statusRequest("4", model.ListFavorite, true)); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SetStatus(ctx, "u1", statusRequest("2", model.ListFavorite, false)); err != nil {
		t.Fatal(err)
	}

	entries, err := svc.ListEntries(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].TMDBID != 3 || entries[1].TMDBID != 1 {
		t.Errorf("expected newest first, got %d, %d", entries[0].TMDBID, entries[1].TMDBID)
	}
}

func TestGetEntry(t *testing.T) {
	svc, _ := newTestStatusService()
	ctx := context.Background()

	if _, err := svc.GetEntry(ctx, "u1", "42"); err != ErrEntryNotFound {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}
	if _, err := svc.GetEntry(ctx, "u1", "abc"); err != ErrInvalidTMDBID {
		t.Errorf("expected ErrInvalidTMDBID, got %v", err)
	}

	if _, err := svc.SetStatus(ctx, "u1", statusRequest("42", model.ListWatched, true)); err != nil {
		t.Fatal(err)
	}
	entry, err := svc.GetEntry(ctx, "u1", "42")
	if err != nil {
		t.Fatal(err)
	}
	if !entry.IsWatched {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if _, err := svc.GetEntry(ctx, "u2", "42"); err != ErrEntryNotFound {
		t.Errorf("other user's entry should be hidden, got %v", err)
	}
}

func TestEntriesToResponse_EmptySlice(t *testing.T) {
	result := entriesToResponse(nil)

	if result == nil {
		t.Fatal("expected non-nil empty slice, got nil")
	}
	if len(result) != 0 {
		t.Errorf("expected empty slice, got %d items", len(result))
	}
}
