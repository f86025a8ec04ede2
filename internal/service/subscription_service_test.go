package service

import (
	"errors"
	"testing"

	"streamhub/internal/model"

	"gorm.io/gorm"
)

type subKey struct{ subscriberID, channelID int64 }

type fakeSubscriptionStore struct {
	rows map[subKey]bool
}

func newFakeSubscriptionStore() *fakeSubscriptionStore {
	return &fakeSubscriptionStore{rows: make(map[subKey]bool)}
}

func (s *fakeSubscriptionStore) Create(subscriberID, channelID int64) (*model.Subscription, error) {
	k := subKey{subscriberID, channelID}
	if s.rows[k] {
		return nil, gorm.ErrDuplicatedKey
	}
	s.rows[k] = true
	return &model.Subscription{SubscriberID: subscriberID, ChannelID: channelID}, nil
}

func (s *fakeSubscriptionStore) Delete(subscriberID, channelID int64) (bool, error) {
	k := subKey{subscriberID, channelID}
	if !s.rows[k] {
		return false, nil
	}
	delete(s.rows, k)
	return true, nil
}

func (s *fakeSubscriptionStore) Exists(subscriberID, channelID int64) (bool, error) {
	return s.rows[subKey{subscriberID, channelID}], nil
}

func (s *fakeSubscriptionStore) CountByChannel(channelID int64) (int64, error) {
	var count int64
	for k := range s.rows {
		if k.channelID == channelID {
			count++
		}
	}
	return count, nil
}

type fakeChannelStore struct {
	users map[int64]*model.User
}

func (s *fakeChannelStore) GetByID(id int64) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *fakeChannelStore) IncrementSubscriberCount(id int64) error {
	u, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.SubscriberCount++
	return nil
}

func (s *fakeChannelStore) DecrementSubscriberCount(id int64) error {
	u, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if u.SubscriberCount > 0 {
		u.SubscriberCount--
	}
	return nil
}

func newSubscriptionFixture() (*SubscriptionService, *fakeChannelStore) {
	users := &fakeChannelStore{users: map[int64]*model.User{
		1: {ID: 1, Username: "alice"},
		2: {ID: 2, Username: "bob"},
	}}
	return NewSubscriptionService(newFakeSubscriptionStore(), users), users
}

func TestSubscribeThenStatusAndTotal(t *testing.T) {
	svc, users := newSubscriptionFixture()

	if err := svc.Subscribe(2, 1); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	status, err := svc.Status(2, 1)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !status.IsSubscribed {
		t.Fatal("expected subscribed after one subscribe")
	}

	total, err := svc.Total(1)
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total.SubscriberCount != 1 {
		t.Fatalf("expected total 1 got %d", total.SubscriberCount)
	}
	if users.users[1].SubscriberCount != 1 {
		t.Fatalf("denormalized counter not incremented: %d", users.users[1].SubscriberCount)
	}
}

func TestSubscribeDuplicateIsConflict(t *testing.T) {
	svc, users := newSubscriptionFixture()

	if err := svc.Subscribe(2, 1); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := svc.Subscribe(2, 1); !errors.Is(err, ErrAlreadySubscribed) {
		t.Fatalf("expected ErrAlreadySubscribed got %v", err)
	}

	total, err := svc.Total(1)
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total.SubscriberCount != 1 {
		t.Fatalf("duplicate subscribe must not create a second row, total %d", total.SubscriberCount)
	}
	if users.users[1].SubscriberCount != 1 {
		t.Fatalf("duplicate subscribe must not bump counter: %d", users.users[1].SubscriberCount)
	}
}

func TestSubscribeSelfRejected(t *testing.T) {
	svc, _ := newSubscriptionFixture()

	if err := svc.Subscribe(1, 1); !errors.Is(err, ErrSelfSubscribe) {
		t.Fatalf("expected ErrSelfSubscribe got %v", err)
	}
}

func TestSubscribeMissingChannel(t *testing.T) {
	svc, _ := newSubscriptionFixture()

	if err := svc.Subscribe(2, 999); !errors.Is(err, ErrChannelNotFound) {
		t.Fatalf("expected ErrChannelNotFound got %v", err)
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	svc, users := newSubscriptionFixture()

	if err := svc.Subscribe(2, 1); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := svc.Unsubscribe(2, 1); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if users.users[1].SubscriberCount != 0 {
		t.Fatalf("expected counter back to 0, got %d", users.users[1].SubscriberCount)
	}

	// 未订阅时取消订阅是空操作
	if err := svc.Unsubscribe(2, 1); err != nil {
		t.Fatalf("repeat unsubscribe: %v", err)
	}
	if users.users[1].SubscriberCount != 0 {
		t.Fatalf("repeat unsubscribe must not change counter: %d", users.users[1].SubscriberCount)
	}

	status, err := svc.Status(2, 1)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.IsSubscribed {
		t.Fatal("expected unsubscribed state")
	}
}

func TestTotalMissingChannel(t *testing.T) {
	svc, _ := newSubscriptionFixture()

	if _, err := svc.Total(999); !errors.Is(err, ErrChannelNotFound) {
		t.Fatalf("expected ErrChannelNotFound got %v", err)
	}
}
