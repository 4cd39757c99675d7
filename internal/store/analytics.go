package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// Visit is one tracked page view
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// Click is one followed outbound link
type Click struct {
	Code      string
	URL       string
	Source    string
	HashedIP  string
	Timestamp time.Time
}

// LinkStat aggregates the clicks of one outbound link
type LinkStat struct {
	Code      string    `json:"code"`
	URL       string    `json:"url"`
	Clicks    int64     `json:"clicks"`
	LastClick time.Time `json:"last_click"`
}

// Stats is the admin dashboard summary
type Stats struct {
	TotalVisitors    int64      `json:"total_visitors"`
	UniqueVisitors   int64      `json:"unique_visitors"`
	VisitorsToday    int64      `json:"visitors_today"`
	VisitorsThisWeek int64      `json:"visitors_this_week"`
	TotalClicks      int64      `json:"total_clicks"`
	TotalMessages    int64      `json:"total_messages"`
	UnsentMessages   int64      `json:"unsent_messages"`
	TopLinks         []LinkStat `json:"top_links"`
	RecentVisitors   []Visit    `json:"recent_visitors"`
}

// RecordVisit stores a page view. A zero timestamp means now.
func (s *Store) RecordVisit(ctx context.Context, v Visit) error {
	if v.Timestamp.IsZero() {
		v.Timestamp = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)`,
		v.HashedIP, v.UserAgent, v.Path, formatTime(v.Timestamp))
	return errors.Wrap(err, "record visit")
}

// RecordClick stores an outbound click. A zero timestamp means now.
func (s *Store) RecordClick(ctx context.Context, c Click) error {
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO link_clicks (code, url, source, hashed_ip, timestamp)
		VALUES (?, ?, ?, ?, ?)`,
		c.Code, c.URL, c.Source, c.HashedIP, formatTime(c.Timestamp))
	return errors.Wrap(err, "record click")
}

// Stats summarises the analytics relative to now
func (s *Store) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	st := &Stats{}
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	week := now.AddDate(0, 0, -7)

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&st.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&st.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&st.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{formatTime(today)}},
		{&st.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{formatTime(week)}},
		{&st.TotalClicks, `SELECT COUNT(*) FROM link_clicks`, nil},
		{&st.TotalMessages, `SELECT COUNT(*) FROM messages`, nil},
		{&st.UnsentMessages, `SELECT COUNT(*) FROM messages WHERE sent = 0`, nil},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, errors.Wrap(err, "count stats")
		}
	}

	links, err := s.Links(ctx, 10)
	if err != nil {
		return nil, err
	}
	st.TopLinks = links

	visitors, err := s.RecentVisitors(ctx, 50)
	if err != nil {
		return nil, err
	}
	st.RecentVisitors = visitors
	return st, nil
}

// Links aggregates clicks per link, most clicked first. A negative limit
// returns every link.
func (s *Store) Links(ctx context.Context, limit int) ([]LinkStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, url, COUNT(*) AS clicks, MAX(timestamp) AS last_click
		FROM link_clicks
		GROUP BY code, url
		ORDER BY clicks DESC, last_click DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query links")
	}
	defer rows.Close()

	var links []LinkStat
	for rows.Next() {
		var (
			l    LinkStat
			last string
		)
		if err := rows.Scan(&l.Code, &l.URL, &l.Clicks, &last); err != nil {
			return nil, errors.Wrap(err, "scan link")
		}
		l.LastClick = parseTime(last)
		links = append(links, l)
	}
	return links, errors.Wrap(rows.Err(), "iterate links")
}

// RecentVisitors lists the latest page views
func (s *Store) RecentVisitors(ctx context.Context, limit int) ([]Visit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query visitors")
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var (
			v  Visit
			ts string
		)
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			return nil, errors.Wrap(err, "scan visitor")
		}
		v.Timestamp = parseTime(ts)
		visits = append(visits, v)
	}
	return visits, errors.Wrap(rows.Err(), "iterate visitors")
}

// PurgeVisitorsBefore deletes page views older than cutoff and reports how many
func (s *Store) PurgeVisitorsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM visitors WHERE timestamp < ?`, formatTime(cutoff))
	if err != nil {
		return 0, errors.Wrap(err, "purge visitors")
	}
	return res.RowsAffected()
}

// ResetLink drops the click history of one link
func (s *Store) ResetLink(ctx context.Context, code string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM link_clicks WHERE code = ?`, code)
	if err != nil {
		return 0, errors.Wrap(err, "reset link")
	}
	return res.RowsAffected()
}
