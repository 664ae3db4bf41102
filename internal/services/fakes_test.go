package services

import (
	"context"
	"sort"
	"time"

	"github.com/selotroca/selotroca-backend/internal/models"
	"github.com/selotroca/selotroca-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes mirroring the MongoDB implementations'
// semantics, including the compare-and-swap guard and the
// one-non-terminal-listing-per-user unique constraint.

type fakeProfileRepo struct {
	profiles map[primitive.ObjectID]*models.Profile

	// casFailures forces ApplyLedgerPatch to report a lost race the next n
	// times it is called.
	casFailures int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[primitive.ObjectID]*models.Profile)}
}

func copyProfile(p *models.Profile) *models.Profile {
	cp := *p
	return &cp
}

func (r *fakeProfileRepo) Create(ctx context.Context, profile *models.Profile) error {
	if profile.ID.IsZero() {
		profile.ID = primitive.NewObjectID()
	}
	r.profiles[profile.ID] = copyProfile(profile)
	return nil
}

func (r *fakeProfileRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return copyProfile(p), nil
}

func (r *fakeProfileRepo) FindByPhone(ctx context.Context, phone string) (*models.Profile, error) {
	for _, p := range r.profiles {
		if p.Phone == phone {
			return copyProfile(p), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeProfileRepo) Update(ctx context.Context, profile *models.Profile) error {
	if _, ok := r.profiles[profile.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.profiles[profile.ID] = copyProfile(profile)
	return nil
}

func (r *fakeProfileRepo) ApplyLedgerPatch(ctx context.Context, id primitive.ObjectID, expectedPoints int, patch repositories.LedgerPatch) (bool, error) {
	if r.casFailures > 0 {
		r.casFailures--
		return false, nil
	}

	p, ok := r.profiles[id]
	if !ok || p.Points != expectedPoints {
		return false, nil
	}

	p.Points = patch.Points
	p.Level = patch.Level
	p.Tier = patch.Tier
	p.StampBalance += patch.StampBalanceDelta
	p.TotalOffered += patch.TotalOfferedDelta
	p.TotalRequested += patch.TotalRequestedDelta
	if patch.WeeklyStampsRequested != nil {
		p.WeeklyStampsRequested = *patch.WeeklyStampsRequested
	}
	if patch.WeeklyResetAt != nil {
		p.WeeklyResetAt = *patch.WeeklyResetAt
	}
	p.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakeProfileRepo) Leaderboard(ctx context.Context, limit int64) ([]*models.LeaderboardEntry, error) {
	profiles := make([]*models.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Points > profiles[j].Points })

	entries := make([]*models.LeaderboardEntry, 0, len(profiles))
	for i, p := range profiles {
		if int64(i) >= limit {
			break
		}
		entries = append(entries, &models.LeaderboardEntry{
			ID:             p.ID,
			DisplayName:    p.DisplayName,
			District:       p.District,
			Points:         p.Points,
			Level:          p.Level,
			Tier:           p.Tier,
			TotalOffered:   p.TotalOffered,
			TotalRequested: p.TotalRequested,
		})
	}
	return entries, nil
}

func (r *fakeProfileRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.profiles)), nil
}

type fakeListingRepo struct {
	listings map[primitive.ObjectID]*models.StampListing
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: make(map[primitive.ObjectID]*models.StampListing)}
}

func copyListing(l *models.StampListing) *models.StampListing {
	cp := *l
	return &cp
}

func (r *fakeListingRepo) Create(ctx context.Context, listing *models.StampListing) error {
	for _, l := range r.listings {
		if l.UserID == listing.UserID && !l.Status.IsTerminal() {
			return repositories.ErrDuplicate
		}
	}
	if listing.ID.IsZero() {
		listing.ID = primitive.NewObjectID()
	}
	r.listings[listing.ID] = copyListing(listing)
	return nil
}

func (r *fakeListingRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.StampListing, error) {
	l, ok := r.listings[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return copyListing(l), nil
}

func (r *fakeListingRepo) FindAll(ctx context.Context, filter repositories.ListingFilter) ([]*models.StampListing, error) {
	var result []*models.StampListing
	for _, l := range r.listings {
		if filter.Type != "" && l.Type != filter.Type {
			continue
		}
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		if !filter.UserID.IsZero() && l.UserID != filter.UserID {
			continue
		}
		result = append(result, copyListing(l))
	}
	sort.Slice(result, func(i, j int) bool {
		if filter.OldestFirst {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if result == nil {
		result = []*models.StampListing{}
	}
	return result, nil
}

func (r *fakeListingRepo) FindNonTerminalByUser(ctx context.Context, userID primitive.ObjectID) (*models.StampListing, error) {
	for _, l := range r.listings {
		if l.UserID == userID && !l.Status.IsTerminal() {
			return copyListing(l), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeListingRepo) TransitionStatus(ctx context.Context, id primitive.ObjectID, from []models.ListingStatus, patch repositories.ListingPatch) (bool, error) {
	l, ok := r.listings[id]
	if !ok {
		return false, nil
	}

	matched := false
	for _, s := range from {
		if l.Status == s {
			matched = true
			break
		}
	}
	if !matched {
		return false, nil
	}

	l.Status = patch.Status
	if patch.Quantity != nil {
		l.Quantity = *patch.Quantity
	}
	if patch.ValidatedBy != nil {
		l.ValidatedBy = *patch.ValidatedBy
	}
	if patch.ValidatedAt != nil {
		l.ValidatedAt = patch.ValidatedAt
	}
	if patch.FulfilledBy != nil {
		l.FulfilledBy = *patch.FulfilledBy
	}
	if patch.FulfilledAt != nil {
		l.FulfilledAt = patch.FulfilledAt
	}
	if patch.RejectionReason != nil {
		l.RejectionReason = *patch.RejectionReason
	}
	l.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakeListingRepo) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	var swept int64
	for _, l := range r.listings {
		if !l.Status.IsTerminal() && l.ExpiresAt.Before(now) {
			l.Status = models.StatusExpired
			l.UpdatedAt = now
			swept++
		}
	}
	return swept, nil
}

func (r *fakeListingRepo) EnsureIndexes(ctx context.Context) error { return nil }

type fakeTransactionRepo struct {
	transactions []*models.StampTransaction
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{}
}

func (r *fakeTransactionRepo) Create(ctx context.Context, tx *models.StampTransaction) error {
	if tx.ID.IsZero() {
		tx.ID = primitive.NewObjectID()
	}
	cp := *tx
	r.transactions = append(r.transactions, &cp)
	return nil
}

func (r *fakeTransactionRepo) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.StampTransaction, error) {
	var result []*models.StampTransaction
	for _, tx := range r.transactions {
		if tx.FromUserID == userID || tx.ToUserID == userID {
			cp := *tx
			result = append(result, &cp)
		}
	}
	return result, nil
}

type fakeAuditRepo struct {
	entries []*models.AuditLog
}

func newFakeAuditRepo() *fakeAuditRepo {
	return &fakeAuditRepo{}
}

func (r *fakeAuditRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	cp := *entry
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *fakeAuditRepo) FindRecent(ctx context.Context, limit int64) ([]*models.AuditLog, error) {
	var result []*models.AuditLog
	for i := len(r.entries) - 1; i >= 0 && int64(len(result)) < limit; i-- {
		cp := *r.entries[i]
		result = append(result, &cp)
	}
	return result, nil
}

type fakeSessionRepo struct {
	sessions map[string]*models.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*models.Session)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *models.Session) error {
	if session.ID.IsZero() {
		session.ID = primitive.NewObjectID()
	}
	cp := *session
	r.sessions[session.Token] = &cp
	return nil
}

func (r *fakeSessionRepo) FindByToken(ctx context.Context, token string) (*models.Session, error) {
	s, ok := r.sessions[token]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) TouchLastActive(ctx context.Context, id primitive.ObjectID) error {
	for _, s := range r.sessions {
		if s.ID == id {
			s.LastActiveAt = time.Now()
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeSessionRepo) DeleteByToken(ctx context.Context, token string) error {
	delete(r.sessions, token)
	return nil
}

func (r *fakeSessionRepo) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	for token, s := range r.sessions {
		if s.ID == id {
			delete(r.sessions, token)
			return nil
		}
	}
	return nil
}

type fakeOtpRepo struct {
	codes []*models.OtpCode
}

func newFakeOtpRepo() *fakeOtpRepo {
	return &fakeOtpRepo{}
}

func (r *fakeOtpRepo) Create(ctx context.Context, otp *models.OtpCode) error {
	if otp.ID.IsZero() {
		otp.ID = primitive.NewObjectID()
	}
	cp := *otp
	r.codes = append(r.codes, &cp)
	return nil
}

func (r *fakeOtpRepo) FindActiveByPhone(ctx context.Context, phone string, now time.Time) (*models.OtpCode, error) {
	for i := len(r.codes) - 1; i >= 0; i-- {
		c := r.codes[i]
		if c.Phone == phone && !c.Used && c.ExpiresAt.After(now) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeOtpRepo) InvalidateByPhone(ctx context.Context, phone string) error {
	for _, c := range r.codes {
		if c.Phone == phone {
			c.Used = true
		}
	}
	return nil
}

func (r *fakeOtpRepo) IncrementAttempts(ctx context.Context, id primitive.ObjectID) error {
	for _, c := range r.codes {
		if c.ID == id {
			c.Attempts++
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeOtpRepo) MarkUsed(ctx context.Context, id primitive.ObjectID) error {
	for _, c := range r.codes {
		if c.ID == id {
			c.Used = true
			return nil
		}
	}
	return repositories.ErrNotFound
}

type fakeSettingsRepo struct {
	settings *models.AppSettings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{}
}

func (r *fakeSettingsRepo) Get(ctx context.Context) (*models.AppSettings, error) {
	if r.settings == nil {
		return nil, repositories.ErrNotFound
	}
	cp := *r.settings
	return &cp, nil
}

func (r *fakeSettingsRepo) Upsert(ctx context.Context, settings *models.AppSettings) error {
	cp := *settings
	r.settings = &cp
	return nil
}

type fakeAdminUserRepo struct {
	users map[primitive.ObjectID]*models.AdminUser
}

func newFakeAdminUserRepo() *fakeAdminUserRepo {
	return &fakeAdminUserRepo{users: make(map[primitive.ObjectID]*models.AdminUser)}
}

func (r *fakeAdminUserRepo) Create(ctx context.Context, user *models.AdminUser) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeAdminUserRepo) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeAdminUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeAdminUserRepo) FindAll(ctx context.Context) ([]*models.AdminUser, error) {
	result := make([]*models.AdminUser, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		result = append(result, &cp)
	}
	return result, nil
}

func (r *fakeAdminUserRepo) Update(ctx context.Context, user *models.AdminUser) error {
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}
