package poll_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"newswire/internal/domain/entity"
	"newswire/internal/repository"
	pollUC "newswire/internal/usecase/poll"
)

/* ───────── モック実装 ───────── */

// stubFeedRepo はFeedRepositoryのモック実装
type stubFeedRepo struct {
	mu            sync.Mutex
	feeds         []*entity.Feed
	listActiveErr error
	successErr    error
	failureErr    error
	successes     map[int64]time.Time
	failures      map[int64]string
}

func (s *stubFeedRepo) ListActive(_ context.Context) ([]*entity.Feed, error) {
	return s.feeds, s.listActiveErr
}

func (s *stubFeedRepo) RecordPollSuccess(_ context.Context, id int64, t time.Time) error {
	if s.successErr != nil {
		return s.successErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.successes == nil {
		s.successes = make(map[int64]time.Time)
	}
	s.successes[id] = t
	return nil
}

func (s *stubFeedRepo) RecordPollFailure(_ context.Context, id int64, msg string) error {
	if s.failureErr != nil {
		return s.failureErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures == nil {
		s.failures = make(map[int64]string)
	}
	s.failures[id] = msg
	return nil
}

// 以下は未使用だが、インターフェース満たすために実装
func (s *stubFeedRepo) Get(_ context.Context, _ int64) (*entity.Feed, error) {
	return nil, nil
}
func (s *stubFeedRepo) List(_ context.Context) ([]*entity.Feed, error) {
	return nil, nil
}
func (s *stubFeedRepo) Create(_ context.Context, _ *entity.Feed) error {
	return nil
}
func (s *stubFeedRepo) Update(_ context.Context, _ *entity.Feed) error {
	return nil
}
func (s *stubFeedRepo) Delete(_ context.Context, _ int64) (int64, error) {
	return 0, nil
}
func (s *stubFeedRepo) ExistsByURL(_ context.Context, _ string) (bool, error) {
	return false, nil
}

// stubArticleRepo はArticleRepositoryのモック実装
type stubArticleRepo struct {
	mu        sync.Mutex
	articles  []*entity.Article
	existsMap map[string]bool
	existsErr error
	createErr error
	nextID    int64
}

func (s *stubArticleRepo) ExistsByGUID(_ context.Context, guid, link string) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.existsMap[guid] || s.existsMap[link] {
		return true, nil
	}
	return false, nil
}

func (s *stubArticleRepo) Create(_ context.Context, a *entity.Article) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.existsMap[a.GUID] || s.existsMap[a.Link] {
		return entity.ErrDuplicateArticle
	}
	s.nextID++
	a.ID = s.nextID
	s.articles = append(s.articles, a)
	if s.existsMap == nil {
		s.existsMap = make(map[string]bool)
	}
	s.existsMap[a.GUID] = true
	if a.Link != "" {
		s.existsMap[a.Link] = true
	}
	return nil
}

// 以下は未使用だが、インターフェース満たすために実装
func (s *stubArticleRepo) ListWithFeed(_ context.Context, _ repository.ArticleFilters, _, _ int) ([]*entity.ArticleWithFeed, error) {
	return nil, nil
}
func (s *stubArticleRepo) Count(_ context.Context, _ repository.ArticleFilters) (int64, error) {
	return 0, nil
}
func (s *stubArticleRepo) GetWithFeed(_ context.Context, _ int64) (*entity.ArticleWithFeed, error) {
	return nil, nil
}
func (s *stubArticleRepo) Get(_ context.Context, _ int64) (*entity.Article, error) {
	return nil, nil
}
func (s *stubArticleRepo) UpdateFlags(_ context.Context, _ int64, _, _ *bool) error {
	return nil
}
func (s *stubArticleRepo) UpdateSummary(_ context.Context, _ int64, _ string) error {
	return nil
}
func (s *stubArticleRepo) Delete(_ context.Context, _ int64) error {
	return nil
}

// stubFetcher は単一フィード用のFeedFetcherモック
type stubFetcher struct {
	feed *pollUC.FetchedFeed
	err  error
}

func (s *stubFetcher) Fetch(_ context.Context, _ string) (*pollUC.FetchedFeed, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.feed, nil
}

// multiFeedFetcher は複数フィード対応のFeedFetcherモック
type multiFeedFetcher struct {
	feeds map[string]*pollUC.FetchedFeed
	errs  map[string]error
}

func (f *multiFeedFetcher) Fetch(_ context.Context, url string) (*pollUC.FetchedFeed, error) {
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	if feed, ok := f.feeds[url]; ok {
		return feed, nil
	}
	return nil, errors.New("unknown feed URL")
}

// slowFetcher は指定時間ブロックするFeedFetcherモック
type slowFetcher struct {
	delay time.Duration
	feed  *pollUC.FetchedFeed
}

func (f *slowFetcher) Fetch(ctx context.Context, _ string) (*pollUC.FetchedFeed, error) {
	select {
	case <-time.After(f.delay):
		return f.feed, nil
	case <-ctx.Done():
		return nil, pollUC.ErrFetchTimeout
	}
}

/* ───────── テストケース ───────── */

func TestService_PollAll_HappyPath(t *testing.T) {
	now := time.Now()

	feedRepo := &stubFeedRepo{
		feeds: []*entity.Feed{
			{ID: 1, Title: "Example Feed", URL: "https://example.com/feed", Active: true},
		},
	}

	artRepo := &stubArticleRepo{
		existsMap: make(map[string]bool),
	}

	fetcher := &stubFetcher{
		feed: &pollUC.FetchedFeed{
			Title: "Example Feed",
			Items: []pollUC.FeedItem{
				{Title: "Article 1", Link: "https://example.com/a1", GUID: "guid-1", Published: &now},
				{Title: "Article 2", Link: "https://example.com/a2", GUID: "guid-2", Published: &now},
			},
		},
	}

	svc := pollUC.NewService(feedRepo, artRepo, fetcher, 4)

	result, err := svc.PollAll(context.Background())
	if err != nil {
		t.Fatalf("PollAll() error = %v", err)
	}

	if result.Total != 1 {
		t.Errorf("Total = %d, want 1", result.Total)
	}
	if result.Successful != 1 {
		t.Errorf("Successful = %d, want 1", result.Successful)
	}
	if result.Failed != 0 {
		t.Errorf("Failed = %d, want 0", result.Failed)
	}
	if result.Inserted != 2 {
		t.Errorf("Inserted = %d, want 2", result.Inserted)
	}
	if result.Duplicated != 0 {
		t.Errorf("Duplicated = %d, want 0", result.Duplicated)
	}

	// 2つの記事が作成されたことを確認
	if len(artRepo.articles) != 2 {
		t.Errorf("created articles = %d, want 2", len(artRepo.articles))
	}

	// 成功がヘルス行に記録されたことを確認
	if _, ok := feedRepo.successes[1]; !ok {
		t.Error("RecordPollSuccess was not called for feed 1")
	}
	if _, ok := feedRepo.failures[1]; ok {
		t.Error("RecordPollFailure should not be called on success")
	}
}

func TestService_PollAll_DuplicateHandling(t *testing.T) {
	now := time.Now()

	feedRepo := &stubFeedRepo{
		feeds: []*entity.Feed{
			{ID: 1, Title: "Example Feed", URL: "https://example.com/feed", Active: true},
		},
	}

	// guid-1は既に存在すると設定
	artRepo := &stubArticleRepo{
		existsMap: map[string]bool{"guid-1": true},
	}

	fetcher := &stubFetcher{
		feed: &pollUC.FetchedFeed{
			Items: []pollUC.FeedItem{
				{Title: "Article 1", Link: "https://example.com/a1", GUID: "guid-1", Published: &now},
				{Title: "Article 2", Link: "https://example.com/a2", GUID: "guid-2", Published: &now},
			},
		},
	}

	svc := pollUC.NewService(feedRepo, artRepo, fetcher, 4)

	result, err := svc.PollAll(context.Background())
	if err != nil {
		t.Fatalf("PollAll() error = %v", err)
	}

	if result.Inserted != 1 {
		t.Errorf("Inserted = %d, want 1", result.Inserted)
	}
	if result.Duplicated != 1 {
		t.Errorf("Duplicated = %d, want 1", result.Duplicated)
	}
	if len(artRepo.articles) != 1 {
		t.Errorf("created articles = %d, want 1", len(artRepo.articles))
	}
	if artRepo.articles[0].GUID != "guid-2" {
		t.Errorf("created article GUID = %s, want guid-2", artRepo.articles[0].GUID)
	}
}

func TestService_PollAll_Rerun_IsIdempotent(t *testing.T) {
	now := time.Now()

	feedRepo := &stubFeedRepo{
		feeds: []*entity.Feed{
			{ID: 1, Title: "Example Feed", URL: "https://example.com/feed", Active: true},
		},
	}

	artRepo := &stubArticleRepo{
		existsMap: make(map[string]bool),
	}

	fetcher := &stubFetcher{
		feed: &pollUC.FetchedFeed{
			Items: []pollUC.FeedItem{
				{Title: "Article 1", Link: "https://example.com/a1", GUID: "guid-1", Published: &now},
				{Title: "Article 2", Link: "https://example.com/a2", GUID: "guid-2", Published: &now},
			},
		},
	}

	svc := pollUC.NewService(feedRepo, artRepo, fetcher, 4)

	first, err := svc.PollAll(context.Background())
	if err != nil {
		t.Fatalf("first PollAll() error = %v", err)
	}
	if first.Inserted != 2 {
		t.Fatalf("first run Inserted = %d, want 2", first.Inserted)
	}

	// 同じフィードをもう一度ポーリングしても新規挿入はゼロ
	second, err := svc.PollAll(context.Background())
	if err != nil {
		t.Fatalf("second PollAll() error = %v", err)
	}
	if second.Inserted != 0 {
		t.Errorf("second run Inserted = %d, want 0", second.Inserted)
	}
	if second.Duplicated != 2 {
		t.Errorf("second run Duplicated = %d, want 2", second.Duplicated)
	}
	if len(artRepo.articles) != 2 {
		t.Errorf("total articles = %d, want 2", len(artRepo.articles))
	}
}

func TestService_PollAll_GUIDFallsBackToLink(t *testing.T) {
	now := time.Now()

	feedRepo := &stubFeedRepo{
		feeds: []*entity.Feed{
			{ID: 1, Title: "Example Feed", URL: "https://example.com/feed", Active: true},
		},
	}

	artRepo := &stubArticleRepo{
		existsMap: make(map[string]bool),
	}

	// guidなし。linkがguid代わりになる
	fetcher := &stubFetcher{
		feed: &pollUC.FetchedFeed{
			Items: []pollUC.FeedItem{
				{Title: "Article 1", Link: "https://example.com/a1", Published: &now},
			},
		},
	}

	svc := pollUC.NewService(feedRepo, artRepo, fetcher, 4)

	if _, err := svc.PollAll(context.Background()); err != nil {
		t.Fatalf("PollAll() error = %v", err)
	}

	if len(artRepo.articles) != 1 {
		t.Fatalf("created articles = %d, want 1", len(artRepo.articles))
	}
	if artRepo.articles[0].GUID != "https://example.com/a1" {
		t.Errorf("GUID = %q, want link fallback", artRepo.articles[0].GUID)
	}

	// 再実行しても重複扱いになる
	result, err := svc.PollAll(context.Background())
	if err != nil {
		t.Fatalf("second PollAll() error = %v", err)
	}
	if result.Duplicated != 1 {
		t.Errorf("Duplicated = %d, want 1", result.Duplicated)
	}
}

func TestService_PollAll_FetchError(t *testing.T) {
	feedRepo := &stubFeedRepo{
		feeds: []*entity.Feed{
			{ID: 1, Title: "Broken Feed", URL: "https://example.com/feed", Active: true},
		},
	}

	artRepo := &stubArticleRepo{}

	fetcher := &stubFetcher{
		err: pollUC.ErrFetchFailed,
	}

	svc := pollUC.NewService(feedRepo, artRepo, fetcher, 4)

	// フェッチエラーは結果に集計されるだけで、エラーを返さない
	result, err := svc.PollAll(context.Background())
	if err != nil {
		t.Fatalf("PollAll() error = %v, want nil", err)
	}

	if result.Failed != 1 {
		t.Errorf("Failed = %d, want 1", result.Failed)
	}
	if result.Successful != 0 {
		t.Errorf("Successful = %d, want 0", result.Successful)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("Errors = %v, want one entry", result.Errors)
	}
	if !strings.HasPrefix(result.Errors[0], "Broken Feed: ") {
		t.Errorf("Errors[0] = %q, want feed title prefix", result.Errors[0])
	}

	// 失敗がヘルス行に記録されたことを確認
	if msg, ok := feedRepo.failures[1]; !ok || msg == "" {
		t.Errorf("RecordPollFailure not called, failures = %v", feedRepo.failures)
	}
	if _, ok := feedRepo.successes[1]; ok {
		t.Error("RecordPollSuccess should not be called on fetch failure")
	}
}

func TestService_PollAll_OneFailureDoesNotBlockOthers(t *testing.T) {
	now := time.Now()

	feedRepo := &stubFeedRepo{
		feeds: []*entity.Feed{
			{ID: 1, Title: "Broken Feed", URL: "https://example.com/broken", Active: true},
			{ID: 2, Title: "Healthy Feed", URL: "https://example.com/healthy", Active: true},
		},
	}

	artRepo := &stubArticleRepo{
		existsMap: make(map[string]bool),
	}

	fetcher := &multiFeedFetcher{
		feeds: map[string]*pollUC.FetchedFeed{
			"https://example.com/healthy": {
				Items: []pollUC.FeedItem{
					{Title: "Article 1", Link: "https://example.com/a1", GUID: "guid-1", Published: &now},
				},
			},
		},
		errs: map[string]error{
			"https://example.com/broken": pollUC.ErrInvalidFeed,
		},
	}

	svc := pollUC.NewService(feedRepo, artRepo, fetcher, 4)

	result, err := svc.PollAll(context.Background())
	if err != nil {
		t.Fatalf("PollAll() error = %v", err)
	}

	if result.Total != 2 {
		t.Errorf("Total = %d, want 2", result.Total)
	}
	if result.Successful != 1 {
		t.Errorf("Successful = %d, want 1", result.Successful)
	}
	if result.Failed != 1 {
		t.Errorf("Failed = %d, want 1", result.Failed)
	}
	if result.Inserted != 1 {
		t.Errorf("Inserted = %d, want 1", result.Inserted)
	}

	// 健康なフィードは成功、壊れたフィードは失敗として記録される
	if _, ok := feedRepo.successes[2]; !ok {
		t.Error("RecordPollSuccess was not called for healthy feed")
	}
	if _, ok := feedRepo.failures[1]; !ok {
		t.Error("RecordPollFailure was not called for broken feed")
	}
}

func TestService_PollAll_ItemErrorDoesNotFailFeed(t *testing.T) {
	now := time.Now()

	feedRepo := &stubFeedRepo{
		feeds: []*entity.Feed{
			{ID: 1, Title: "Example Feed", URL: "https://example.com/feed", Active: true},
		},
	}

	// Createが常に失敗する
	artRepo := &stubArticleRepo{
		createErr: errors.New("insert failed"),
	}

	fetcher := &stubFetcher{
		feed: &pollUC.FetchedFeed{
			Items: []pollUC.FeedItem{
				{Title: "Article 1", Link: "https://example.com/a1", GUID: "guid-1", Published: &now},
			},
		},
	}

	svc := pollUC.NewService(feedRepo, artRepo, fetcher, 4)

	result, err := svc.PollAll(context.Background())
	if err != nil {
		t.Fatalf("PollAll() error = %v", err)
	}

	// 記事の挿入失敗はフィード自体の失敗にはならない
	if result.Successful != 1 {
		t.Errorf("Successful = %d, want 1", result.Successful)
	}
	if result.Failed != 0 {
		t.Errorf("Failed = %d, want 0", result.Failed)
	}
	if result.ItemErrors != 1 {
		t.Errorf("ItemErrors = %d, want 1", result.ItemErrors)
	}
	if _, ok := feedRepo.successes[1]; !ok {
		t.Error("RecordPollSuccess should still be called after item errors")
	}
}

func TestService_PollAll_RaceOnInsertCountsAsDuplicate(t *testing.T) {
	now := time.Now()

	feedRepo := &stubFeedRepo{
		feeds: []*entity.Feed{
			{ID: 1, Title: "Example Feed", URL: "https://example.com/feed", Active: true},
		},
	}

	// 存在チェックは通るが、挿入時に一意制約違反が起きる
	artRepo := &stubArticleRepo{
		createErr: entity.ErrDuplicateArticle,
	}

	fetcher := &stubFetcher{
		feed: &pollUC.FetchedFeed{
			Items: []pollUC.FeedItem{
				{Title: "Article 1", Link: "https://example.com/a1", GUID: "guid-1", Published: &now},
			},
		},
	}

	svc := pollUC.NewService(feedRepo, artRepo, fetcher, 4)

	result, err := svc.PollAll(context.Background())
	if err != nil {
		t.Fatalf("PollAll() error = %v", err)
	}

	if result.Duplicated != 1 {
		t.Errorf("Duplicated = %d, want 1", result.Duplicated)
	}
	if result.ItemErrors != 0 {
		t.Errorf("ItemErrors = %d, want 0", result.ItemErrors)
	}
}

func TestService_PollAll_ExistsCheckError(t *testing.T) {
	now := time.Now()

	feedRepo := &stubFeedRepo{
		feeds: []*entity.Feed{
			{ID: 1, Title: "Example Feed", URL: "https://example.com/feed", Active: true},
		},
	}

	artRepo := &stubArticleRepo{
		existsErr: errors.New("database error"),
	}

	fetcher := &stubFetcher{
		feed: &pollUC.FetchedFeed{
			Items: []pollUC.FeedItem{
				{Title: "Article 1", Link: "https://example.com/a1", GUID: "guid-1", Published: &now},
			},
		},
	}

	svc := pollUC.NewService(feedRepo, artRepo, fetcher, 4)

	result, err := svc.PollAll(context.Background())
	if err != nil {
		t.Fatalf("PollAll() error = %v, want nil", err)
	}

	if result.ItemErrors != 1 {
		t.Errorf("ItemErrors = %d, want 1", result.ItemErrors)
	}
	if result.Inserted != 0 {
		t.Errorf("Inserted = %d, want 0", result.Inserted)
	}
}

func TestService_PollAll_NoActiveFeeds(t *testing.T) {
	feedRepo := &stubFeedRepo{feeds: []*entity.Feed{}}
	artRepo := &stubArticleRepo{}
	fetcher := &stubFetcher{}

	svc := pollUC.NewService(feedRepo, artRepo, fetcher, 4)

	result, err := svc.PollAll(context.Background())
	if err != nil {
		t.Fatalf("PollAll() error = %v", err)
	}

	if result.Total != 0 {
		t.Errorf("Total = %d, want 0", result.Total)
	}
	if result.Inserted != 0 {
		t.Errorf("Inserted = %d, want 0", result.Inserted)
	}
}

func TestService_PollAll_ListActiveError(t *testing.T) {
	feedRepo := &stubFeedRepo{
		listActiveErr: errors.New("database error"),
	}

	svc := pollUC.NewService(feedRepo, &stubArticleRepo{}, &stubFetcher{}, 4)

	_, err := svc.PollAll(context.Background())
	if err == nil {
		t.Fatal("PollAll() error = nil, want error")
	}
	if err.Error() != "PollAll: database error" {
		t.Errorf("error message = %q", err.Error())
	}
}

func TestService_PollAll_SlowFeedTimesOutAlone(t *testing.T) {
	now := time.Now()

	feedRepo := &stubFeedRepo{
		feeds: []*entity.Feed{
			{ID: 1, Title: "Slow Feed", URL: "https://example.com/slow", Active: true},
		},
	}

	artRepo := &stubArticleRepo{
		existsMap: make(map[string]bool),
	}

	fetcher := &slowFetcher{
		delay: 5 * time.Second,
		feed: &pollUC.FetchedFeed{
			Items: []pollUC.FeedItem{
				{Title: "Article 1", Link: "https://example.com/a1", Published: &now},
			},
		},
	}

	svc := pollUC.NewService(feedRepo, artRepo, fetcher, 4)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	result, err := svc.PollAll(ctx)
	if err != nil {
		t.Fatalf("PollAll() error = %v, want nil", err)
	}

	if result.Failed != 1 {
		t.Errorf("Failed = %d, want 1", result.Failed)
	}

	// タイムアウトは失敗としてヘルス行に記録される
	if msg := feedRepo.failures[1]; !strings.Contains(msg, "timed out") {
		t.Errorf("recorded failure = %q, want timeout message", msg)
	}
}

func TestService_PollAll_DefaultConcurrency(t *testing.T) {
	// maxConcurrentが0以下ならデフォルト値が使われ、パニックしない
	svc := pollUC.NewService(&stubFeedRepo{}, &stubArticleRepo{}, &stubFetcher{}, 0)

	result, err := svc.PollAll(context.Background())
	if err != nil {
		t.Fatalf("PollAll() error = %v", err)
	}
	if result.Total != 0 {
		t.Errorf("Total = %d, want 0", result.Total)
	}
}
