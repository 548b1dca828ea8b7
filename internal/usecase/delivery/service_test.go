package delivery

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/rs/zerolog"

	"bulletin-bot/internal/domain"
	"bulletin-bot/internal/usecase/schedule"
)

type sent struct {
	channel string
	body    string
}

type fakeDeliverer struct {
	sent   []sent
	failOn map[string]error
}

func (f *fakeDeliverer) Deliver(_ context.Context, channelID, body string) (domain.Receipt, error) {
	f.sent = append(f.sent, sent{channel: channelID, body: body})
	if err, ok := f.failOn[body]; ok {
		return domain.Receipt{}, err
	}
	return domain.Receipt{Platform: "fake", ChannelID: channelID, Timestamp: "1", Parts: 1}, nil
}

type brokenResolver struct{}

func (brokenResolver) Resolve(time.Time) (domain.Plan, error) {
	return domain.Plan{}, errors.New("диск недоступен")
}

var christmas = time.Date(2025, time.December, 24, 7, 0, 0, 0, time.UTC)

func newService(store fstest.MapFS, defaultChannel string, d domain.Deliverer) *Service {
	resolver := schedule.NewResolver(store, schedule.Config{DefaultChannel: defaultChannel})
	return NewService(resolver, d, "fake", zerolog.Nop())
}

func TestSendDailyDeliversInOrder(t *testing.T) {
	store := fstest.MapFS{
		"misc/24.12.25.md":   {Data: []byte("God jul!")},
		"growth/24.12.25.md": {Data: []byte("Vekst")},
		"growth/.channel":    {Data: []byte("CGROWTH\n")},
	}
	d := &fakeDeliverer{}
	report, err := newService(store, "C0", d).SendDaily(context.Background(), christmas)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if report.Delivered != 2 || report.Scheduled != 2 {
		t.Fatalf("неожиданный отчёт: %+v", report)
	}
	want := []sent{{"CGROWTH", "Vekst"}, {"C0", "God jul!"}}
	for i, w := range want {
		if d.sent[i] != w {
			t.Fatalf("позиция %d: ожидали %+v, получили %+v", i, w, d.sent[i])
		}
	}
	if report.RunID == "" {
		t.Fatal("ожидали run id")
	}
}

func TestSendDailyNothingScheduled(t *testing.T) {
	d := &fakeDeliverer{}
	report, err := newService(fstest.MapFS{}, "", d).SendDaily(context.Background(), christmas)
	if err != nil {
		t.Fatalf("пустой день не ошибка: %v", err)
	}
	if report.Scheduled != 0 || len(d.sent) != 0 {
		t.Fatalf("ничего не должно уйти: %+v", report)
	}
}

func TestSendDailyFailureDoesNotAbortSiblings(t *testing.T) {
	store := fstest.MapFS{
		"a/24.12.25.md": {Data: []byte("first")},
		"b/24.12.25.md": {Data: []byte("second")},
		"c/24.12.25.md": {Data: []byte("third")},
	}
	boom := &domain.DeliveryError{Platform: "fake", ChannelID: "C0", Code: "channel_not_found"}
	d := &fakeDeliverer{failOn: map[string]error{"first": boom}}
	report, err := newService(store, "C0", d).SendDaily(context.Background(), christmas)
	if err == nil {
		t.Fatal("ожидали ошибку прогона")
	}
	if !errors.As(err, new(*domain.DeliveryError)) {
		t.Fatalf("ошибка провайдера должна сохраниться: %v", err)
	}
	if len(d.sent) != 3 || report.Delivered != 2 || report.Failed != 1 {
		t.Fatalf("ожидали 3 попытки и 1 сбой: %+v", report)
	}
}

func TestSendDailyMissingChannel(t *testing.T) {
	store := fstest.MapFS{
		"a/24.12.25.md": {Data: []byte("no channel")},
		"b/24.12.25.md": {Data: []byte("routed")},
		"b/.channel":    {Data: []byte("CB")},
	}
	d := &fakeDeliverer{}
	report, err := newService(store, "", d).SendDaily(context.Background(), christmas)
	if !errors.Is(err, domain.ErrNoChannel) {
		t.Fatalf("ожидали ErrNoChannel, получили %v", err)
	}
	if len(d.sent) != 1 || d.sent[0].channel != "CB" {
		t.Fatalf("сообщение с каналом должно уйти: %+v", d.sent)
	}
	if report.Failed != 1 || report.Delivered != 1 {
		t.Fatalf("неожиданный отчёт: %+v", report)
	}
}

func TestSendDailySkipsBlankBody(t *testing.T) {
	store := fstest.MapFS{"misc/24.12.25.md": {Data: []byte("  \n")}}
	d := &fakeDeliverer{}
	report, err := newService(store, "C0", d).SendDaily(context.Background(), christmas)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if report.Skipped != 1 || len(d.sent) != 0 {
		t.Fatalf("пустой файл должен быть пропущен: %+v", report)
	}
}

func TestSendDailyDryRun(t *testing.T) {
	store := fstest.MapFS{"misc/24.12.25.md": {Data: []byte("God jul!")}}
	d := &fakeDeliverer{}
	report, err := newService(store, "C0", d).WithDryRun(true).SendDaily(context.Background(), christmas)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(d.sent) != 0 || report.Skipped != 1 {
		t.Fatalf("dry-run не должен отправлять: %+v", report)
	}
}

func TestSendDailyResolverError(t *testing.T) {
	svc := NewService(brokenResolver{}, &fakeDeliverer{}, "fake", zerolog.Nop())
	if _, err := svc.SendDaily(context.Background(), christmas); err == nil {
		t.Fatal("ожидали ошибку обхода хранилища")
	}
}

func TestSendWeekly(t *testing.T) {
	d := &fakeDeliverer{}
	svc := newService(fstest.MapFS{}, "C0", d)
	rotation := []string{"uke 1", "uke 2"}
	// 2025-01-08: ISO-неделя 2
	report, err := svc.SendWeekly(context.Background(), time.Date(2025, time.January, 8, 0, 0, 0, 0, time.UTC), "C0", rotation)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if report.Delivered != 1 || d.sent[0] != (sent{"C0", "uke 2"}) {
		t.Fatalf("неожиданная отправка: %+v", d.sent)
	}
}

func TestSendWeeklyEmptyRotation(t *testing.T) {
	d := &fakeDeliverer{}
	svc := newService(fstest.MapFS{}, "C0", d)
	if _, err := svc.SendWeekly(context.Background(), christmas, "C0", nil); !errors.Is(err, domain.ErrEmptyRotation) {
		t.Fatalf("ожидали ErrEmptyRotation, получили %v", err)
	}
	if len(d.sent) != 0 {
		t.Fatal("ничего не должно уйти")
	}
}

func TestSendWeeklyNoChannel(t *testing.T) {
	svc := newService(fstest.MapFS{}, "", &fakeDeliverer{})
	if _, err := svc.SendWeekly(context.Background(), christmas, " ", []string{"x"}); !errors.Is(err, domain.ErrNoChannel) {
		t.Fatalf("ожидали ErrNoChannel, получили %v", err)
	}
}

func TestPreviewClips(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "ordet\n"
	}
	got := preview(long)
	if len([]rune(got)) != 103 {
		t.Fatalf("ожидали 100 символов и многоточие, получили %d", len([]rune(got)))
	}
}
