package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu               sync.Mutex
	syncRuns         int
	syncFailures     int
	articlesSeen     int
	articlesUpdated  int
	articlesSkipped  int
	articlesFailed   int
	fetchDurations   []float64
	slackNotifSent   int
	slackNotifFailed int
	runDuration      float64
	lastSuccess      float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		fetchDurations: make([]float64, 0),
	}
}

func (m *Mock) IncSyncRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncRuns++
}

func (m *Mock) IncSyncFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncFailures++
}

func (m *Mock) AddArticlesSeen(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.articlesSeen += n
}

func (m *Mock) IncArticlesUpdated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.articlesUpdated++
}

func (m *Mock) IncArticlesSkipped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.articlesSkipped++
}

func (m *Mock) IncArticlesFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.articlesFailed++
}

func (m *Mock) ObserveFetchDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchDurations = append(m.fetchDurations, seconds)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetRunDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runDuration = seconds
}

func (m *Mock) SetLastSuccess(unixSeconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSuccess = unixSeconds
}

// SyncRuns returns the number of times IncSyncRuns was called.
func (m *Mock) SyncRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.syncRuns
}

// SyncFailures returns the number of times IncSyncFailures was called.
func (m *Mock) SyncFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.syncFailures
}

// ArticlesSeen returns the sum passed to AddArticlesSeen.
func (m *Mock) ArticlesSeen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.articlesSeen
}

// ArticlesUpdated returns the number of times IncArticlesUpdated was called.
func (m *Mock) ArticlesUpdated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.articlesUpdated
}

// ArticlesSkipped returns the number of times IncArticlesSkipped was called.
func (m *Mock) ArticlesSkipped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.articlesSkipped
}

// ArticlesFailed returns the number of times IncArticlesFailed was called.
func (m *Mock) ArticlesFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.articlesFailed
}

// FetchDurations returns the observed per-article fetch durations.
func (m *Mock) FetchDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.fetchDurations...)
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

// LastSuccess returns the value passed to SetLastSuccess.
func (m *Mock) LastSuccess() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSuccess
}
