package service

import (
	"errors"
	"testing"

	"streamhub/internal/model"

	"gorm.io/gorm"
)

type likeKey struct{ userID, videoID int64 }

type fakeLikeStore struct {
	rows map[likeKey]bool
}

func newFakeLikeStore() *fakeLikeStore {
	return &fakeLikeStore{rows: make(map[likeKey]bool)}
}

func (s *fakeLikeStore) Create(userID, videoID int64) (*model.Like, error) {
	k := likeKey{userID, videoID}
	if s.rows[k] {
		return nil, gorm.ErrDuplicatedKey
	}
	s.rows[k] = true
	return &model.Like{UserID: userID, VideoID: videoID}, nil
}

func (s *fakeLikeStore) Delete(userID, videoID int64) (bool, error) {
	k := likeKey{userID, videoID}
	if !s.rows[k] {
		return false, nil
	}
	delete(s.rows, k)
	return true, nil
}

func (s *fakeLikeStore) Exists(userID, videoID int64) (bool, error) {
	return s.rows[likeKey{userID, videoID}], nil
}

type fakeLikeVideoStore struct {
	videos map[int64]*model.Video
}

func (s *fakeLikeVideoStore) GetByID(id int64) (*model.Video, error) {
	v, ok := s.videos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *v
	return &clone, nil
}

func (s *fakeLikeVideoStore) IncrementLikes(id int64) error {
	v, ok := s.videos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Likes++
	return nil
}

func (s *fakeLikeVideoStore) DecrementLikes(id int64) error {
	v, ok := s.videos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v.Likes > 0 {
		v.Likes--
	}
	return nil
}

func newLikeFixture() (*LikeService, *fakeLikeVideoStore) {
	videos := &fakeLikeVideoStore{videos: map[int64]*model.Video{
		1: {ID: 1, OwnerID: 10, Title: "first", IsPublished: true},
	}}
	return NewLikeService(newFakeLikeStore(), videos), videos
}

func TestSetLikeIncrementsOnce(t *testing.T) {
	svc, videos := newLikeFixture()

	data, err := svc.SetLike(7, 1, true)
	if err != nil {
		t.Fatalf("set like: %v", err)
	}
	if !data.Liked || data.Likes != 1 {
		t.Fatalf("expected liked with count 1, got %+v", data)
	}

	// 重复点赞不应再次加计数
	data, err = svc.SetLike(7, 1, true)
	if err != nil {
		t.Fatalf("repeat set like: %v", err)
	}
	if data.Likes != 1 {
		t.Fatalf("repeat like must not change counter, got %d", data.Likes)
	}
	if videos.videos[1].Likes != 1 {
		t.Fatalf("stored counter changed on repeat like: %d", videos.videos[1].Likes)
	}
}

func TestSetLikeDistinctUsers(t *testing.T) {
	svc, _ := newLikeFixture()

	if _, err := svc.SetLike(7, 1, true); err != nil {
		t.Fatalf("set like: %v", err)
	}
	data, err := svc.SetLike(8, 1, true)
	if err != nil {
		t.Fatalf("set like: %v", err)
	}
	if data.Likes != 2 {
		t.Fatalf("expected count 2 after two distinct users, got %d", data.Likes)
	}
}

func TestUnlikeIsIdempotent(t *testing.T) {
	svc, _ := newLikeFixture()

	if _, err := svc.SetLike(7, 1, true); err != nil {
		t.Fatalf("set like: %v", err)
	}

	data, err := svc.Unlike(7, 1)
	if err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if data.Liked || data.Likes != 0 {
		t.Fatalf("expected unliked with count 0, got %+v", data)
	}

	// 未点赞时取消点赞是空操作
	data, err = svc.Unlike(7, 1)
	if err != nil {
		t.Fatalf("repeat unlike: %v", err)
	}
	if data.Likes != 0 {
		t.Fatalf("repeat unlike must not change counter, got %d", data.Likes)
	}
}

func TestToggleFlipsState(t *testing.T) {
	svc, _ := newLikeFixture()

	data, err := svc.Toggle(7, 1)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !data.Liked || data.Likes != 1 {
		t.Fatalf("first toggle should like, got %+v", data)
	}

	data, err = svc.Toggle(7, 1)
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if data.Liked || data.Likes != 0 {
		t.Fatalf("second toggle should unlike, got %+v", data)
	}
}

func TestSetLikeVideoNotFound(t *testing.T) {
	svc, _ := newLikeFixture()

	if _, err := svc.SetLike(7, 999, true); !errors.Is(err, ErrVideoNotFound) {
		t.Fatalf("expected ErrVideoNotFound got %v", err)
	}
}
