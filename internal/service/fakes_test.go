package service

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	ytapi "google.golang.org/api/youtube/v3"

	"github.com/analytubeapp-coder/analytube/internal/model"
	"github.com/analytubeapp-coder/analytube/internal/repository"
	"github.com/analytubeapp-coder/analytube/internal/youtube"
)

var testNow = time.Date(2026, 10, 16, 15, 4, 5, 0, time.UTC)

func fixedNow() time.Time { return testNow }

// fakeProvider is an in-memory youtube.Provider that counts calls per method.
type fakeProvider struct {
	mu sync.Mutex

	channels  map[string]*ytapi.Channel
	usernames map[string]*ytapi.Channel
	searches  map[string][]*ytapi.SearchResult
	videoIDs  []string
	videos    map[string]*ytapi.Video

	failBatches map[int]bool // zero-based VideosByID call index
	errs        map[string]error

	calls        map[string]int
	searchQuery  []string
	searchSizes  []int64
	batchSizes   []int
	batchCounter int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		channels:    map[string]*ytapi.Channel{},
		usernames:   map[string]*ytapi.Channel{},
		searches:    map[string][]*ytapi.SearchResult{},
		videos:      map[string]*ytapi.Video{},
		failBatches: map[int]bool{},
		errs:        map[string]error{},
		calls:       map[string]int{},
	}
}

func (p *fakeProvider) addChannel(id string, subs, views, videos uint64) {
	p.channels[id] = &ytapi.Channel{
		Id:      id,
		Snippet: &ytapi.ChannelSnippet{Title: "Channel " + id},
		Statistics: &ytapi.ChannelStatistics{
			SubscriberCount: subs,
			ViewCount:       views,
			VideoCount:      videos,
		},
	}
}

func (p *fakeProvider) addVideos(channelID string, n int) {
	for i := range n {
		id := fmt.Sprintf("vid%03d", i)
		p.videoIDs = append(p.videoIDs, id)
		p.videos[id] = &ytapi.Video{
			Id: id,
			Snippet: &ytapi.VideoSnippet{
				ChannelId:   channelID,
				Title:       "Video " + id,
				PublishedAt: testNow.Add(-time.Duration(i) * time.Hour).Format(time.RFC3339),
			},
			Statistics: &ytapi.VideoStatistics{ViewCount: uint64(i * 10)},
		}
	}
}

func (p *fakeProvider) count(method string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[method]
}

func (p *fakeProvider) record(method string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls[method]++
	return p.errs[method]
}

func (p *fakeProvider) ChannelsByID(_ context.Context, ids ...string) ([]*ytapi.Channel, error) {
	if err := p.record("ChannelsByID"); err != nil {
		return nil, err
	}
	var out []*ytapi.Channel
	for _, id := range ids {
		if ch, ok := p.channels[id]; ok {
			out = append(out, ch)
		}
	}
	return out, nil
}

func (p *fakeProvider) ChannelsByUsername(_ context.Context, username string) ([]*ytapi.Channel, error) {
	if err := p.record("ChannelsByUsername"); err != nil {
		return nil, err
	}
	if ch, ok := p.usernames[username]; ok {
		return []*ytapi.Channel{ch}, nil
	}
	return nil, nil
}

func (p *fakeProvider) SearchChannels(_ context.Context, query string, _ int64) ([]*ytapi.SearchResult, error) {
	if err := p.record("SearchChannels"); err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.searchQuery = append(p.searchQuery, query)
	p.mu.Unlock()
	return p.searches[query], nil
}

func (p *fakeProvider) SearchVideos(_ context.Context, q youtube.VideoSearch) (*ytapi.SearchListResponse, error) {
	if err := p.record("SearchVideos"); err != nil {
		return nil, err
	}
	offset := 0
	if q.PageToken != "" {
		offset, _ = strconv.Atoi(q.PageToken)
	}
	size := int(q.MaxResults)
	end := min(offset+size, len(p.videoIDs))

	p.mu.Lock()
	p.searchSizes = append(p.searchSizes, q.MaxResults)
	p.mu.Unlock()

	resp := &ytapi.SearchListResponse{}
	for _, id := range p.videoIDs[offset:end] {
		resp.Items = append(resp.Items, &ytapi.SearchResult{Id: &ytapi.ResourceId{Kind: "youtube#video", VideoId: id}})
	}
	if end < len(p.videoIDs) {
		resp.NextPageToken = strconv.Itoa(end)
	}
	return resp, nil
}

func (p *fakeProvider) VideosByID(_ context.Context, ids []string) ([]*ytapi.Video, error) {
	if err := p.record("VideosByID"); err != nil {
		return nil, err
	}
	p.mu.Lock()
	idx := p.batchCounter
	p.batchCounter++
	p.batchSizes = append(p.batchSizes, len(ids))
	p.mu.Unlock()

	if p.failBatches[idx] {
		return nil, fmt.Errorf("batch %d unavailable", idx)
	}
	var out []*ytapi.Video
	for _, id := range ids {
		if v, ok := p.videos[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func channelSearchResult(channelID string) *ytapi.SearchResult {
	return &ytapi.SearchResult{
		Id:      &ytapi.ResourceId{Kind: "youtube#channel", ChannelId: channelID},
		Snippet: &ytapi.SearchResultSnippet{ChannelId: channelID},
	}
}

// fakeChannelStore mirrors repository.ChannelRepo.
type fakeChannelStore struct {
	mu       sync.Mutex
	channels map[string]model.Channel
	order    []string
	upserts  int
	err      error
}

func newFakeChannelStore() *fakeChannelStore {
	return &fakeChannelStore{channels: map[string]model.Channel{}}
}

func (s *fakeChannelStore) Upsert(_ context.Context, ch *model.Channel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.upserts++
	if _, ok := s.channels[ch.ChannelID]; !ok {
		s.order = append(s.order, ch.ChannelID)
	}
	s.channels[ch.ChannelID] = *ch
	return nil
}

func (s *fakeChannelStore) FindByChannelID(_ context.Context, channelID string) (*model.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.channels[channelID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &ch, nil
}

func (s *fakeChannelStore) ListChannelIDs(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return slices.Clone(s.order), nil
}

// fakeSnapshotStore mirrors repository.SnapshotRepo, including the
// (channel, day) uniqueness and synthetic-row replacement.
type fakeSnapshotStore struct {
	mu      sync.Mutex
	rows    map[string]map[string]model.Snapshot
	inserts map[model.SnapshotOrigin]int
	err     error
}

func newFakeSnapshotStore() *fakeSnapshotStore {
	return &fakeSnapshotStore{
		rows:    map[string]map[string]model.Snapshot{},
		inserts: map[model.SnapshotOrigin]int{},
	}
}

func (s *fakeSnapshotStore) seed(channelID string, snaps ...model.Snapshot) {
	for _, snap := range snaps {
		snap.ChannelID = channelID
		if snap.Origin == "" {
			snap.Origin = model.OriginObserved
		}
		if s.rows[channelID] == nil {
			s.rows[channelID] = map[string]model.Snapshot{}
		}
		s.rows[channelID][snap.DateString()] = snap
	}
}

func (s *fakeSnapshotStore) Insert(_ context.Context, snap model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	snap.Date = model.Day(snap.Date)
	day := snap.DateString()
	if s.rows[snap.ChannelID] == nil {
		s.rows[snap.ChannelID] = map[string]model.Snapshot{}
	}
	if existing, ok := s.rows[snap.ChannelID][day]; ok {
		if existing.Origin == model.OriginSynthetic && snap.Origin == model.OriginObserved {
			s.rows[snap.ChannelID][day] = snap
			s.inserts[snap.Origin]++
			return nil
		}
		return repository.ErrSnapshotExists
	}
	s.rows[snap.ChannelID][day] = snap
	s.inserts[snap.Origin]++
	return nil
}

func (s *fakeSnapshotStore) Recent(_ context.Context, channelID string, limit int) ([]model.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []model.Snapshot
	for _, snap := range s.rows[channelID] {
		out = append(out, snap)
	}
	slices.SortFunc(out, func(a, b model.Snapshot) int { return b.Date.Compare(a.Date) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeSnapshotStore) total(channelID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows[channelID])
}

// fakeVideoStore mirrors repository.VideoRepo.
type fakeVideoStore struct {
	mu     sync.Mutex
	videos map[string]model.Video
	err    error
}

func newFakeVideoStore() *fakeVideoStore {
	return &fakeVideoStore{videos: map[string]model.Video{}}
}

func (s *fakeVideoStore) UpsertMany(_ context.Context, videos []model.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for _, v := range videos {
		s.videos[v.VideoID] = v
	}
	return nil
}

func (s *fakeVideoStore) RecentByChannel(_ context.Context, channelID string, limit int) ([]model.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Video
	for _, v := range s.videos {
		if v.ChannelID == channelID {
			out = append(out, v)
		}
	}
	slices.SortFunc(out, func(a, b model.Video) int { return b.PublishedAt.Compare(a.PublishedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// day returns the snapshot date offset days before testNow.
func day(offset int) time.Time {
	return model.Day(testNow).AddDate(0, 0, -offset)
}

// testDeps wires the services over fresh fakes with a fixed clock.
type testDeps struct {
	provider  *fakeProvider
	channels  *fakeChannelStore
	snapshots *fakeSnapshotStore
	videos    *fakeVideoStore

	fetcher  *StatsFetcher
	recorder *SnapshotService
	growth   *GrowthService
	channel  *ChannelService
	ranker   *VideoRanker
}

func newTestDeps(backfill bool) *testDeps {
	logger := zerolog.Nop()
	d := &testDeps{
		provider:  newFakeProvider(),
		channels:  newFakeChannelStore(),
		snapshots: newFakeSnapshotStore(),
		videos:    newFakeVideoStore(),
	}
	d.fetcher = NewStatsFetcher(d.provider, logger)
	d.fetcher.now = fixedNow
	d.recorder = NewSnapshotService(d.fetcher, d.channels, d.snapshots, nil, logger)
	d.recorder.now = fixedNow
	d.growth = NewGrowthService(d.snapshots, d.channels, d.videos, d.recorder, nil, backfill, logger)
	d.growth.now = fixedNow
	d.channel = NewChannelService(d.fetcher, d.channels, d.recorder, nil, logger)
	d.ranker = NewVideoRanker(d.provider, d.videos, logger)
	d.ranker.now = fixedNow
	return d
}
