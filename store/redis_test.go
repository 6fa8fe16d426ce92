package store

import (
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
)

func TestRedisStore_Get_Hit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisStoreFromClient(db, time.Hour, "test:")

	mock.ExpectGet("test:mykey").SetVal("myvalue")

	val, ok := s.Get("mykey")
	if !ok {
		t.Error("Expected hit")
	}
	if val != "myvalue" {
		t.Errorf("Expected 'myvalue', got %q", val)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisStore_Get_Miss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisStoreFromClient(db, time.Hour, "test:")

	mock.ExpectGet("test:mykey").RedisNil()

	val, ok := s.Get("mykey")
	if ok {
		t.Error("Expected miss")
	}
	if val != "" {
		t.Errorf("Expected empty string, got %q", val)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisStore_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisStoreFromClient(db, time.Hour, "test:")

	mock.ExpectSet("test:mykey", "myvalue", time.Hour).SetVal("OK")

	if err := s.Set("mykey", "myvalue"); err != nil {
		t.Errorf("Set failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisStore_Set_NoTTL(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisStoreFromClient(db, 0, "test:")

	mock.ExpectSet("test:mykey", "myvalue", 0).SetVal("OK")

	if err := s.Set("mykey", "myvalue"); err != nil {
		t.Errorf("Set failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisStore_Lookup_Error(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisStoreFromClient(db, time.Hour, "test:")

	cause := errors.New("connection reset")
	mock.ExpectGet("test:mykey").SetErr(cause)

	_, ok, err := s.Lookup("mykey")
	if ok {
		t.Error("Expected no value")
	}
	if !errors.Is(err, cause) {
		t.Errorf("Expected the Redis error, got %v", err)
	}

	mock.ExpectGet("test:mykey").RedisNil()
	if _, ok, err := s.Lookup("mykey"); ok || err != nil {
		t.Errorf("Missing key: ok=%v err=%v, want false, nil", ok, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisStore_Delete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisStoreFromClient(db, time.Hour, "test:")

	mock.ExpectDel("test:mykey").SetVal(1)

	if err := s.Delete("mykey"); err != nil {
		t.Errorf("Delete failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisStore_DefaultKeyPrefix(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisStoreFromClient(db, time.Hour, "")

	mock.ExpectGet("quicklang:session:last:abc").SetVal("deadbeef")

	val, ok := s.Get("last:abc")
	if !ok || val != "deadbeef" {
		t.Errorf("Expected 'deadbeef', got %q (ok=%v)", val, ok)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisStore_Ping(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisStoreFromClient(db, time.Hour, "test:")

	mock.ExpectPing().SetVal("PONG")

	if err := s.Ping(t.Context()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisStore_Expiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStoreFromClient(client, time.Minute, "")
	defer s.Close()

	if err := s.Set("last:session-1", "abc"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if val, ok := s.Get("last:session-1"); !ok || val != "abc" {
		t.Fatalf("Get() = %q, %v; want abc, true", val, ok)
	}

	if ttl := mr.TTL(DefaultKeyPrefix + "last:session-1"); ttl != time.Minute {
		t.Errorf("TTL = %v, want %v", ttl, time.Minute)
	}

	mr.FastForward(2 * time.Minute)

	if _, ok := s.Get("last:session-1"); ok {
		t.Error("Entry should have expired")
	}
}

func TestNewRedisStore_FromURL(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	s, err := NewRedisStore(RedisConfig{URL: "redis://" + mr.Addr() + "/0", TTL: time.Hour})
	if err != nil {
		t.Fatalf("NewRedisStore failed: %v", err)
	}
	defer s.Close()

	if err := s.Set("k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got, _ := mr.Get(DefaultKeyPrefix + "k"); got != "v" {
		t.Errorf("stored value = %q, want v", got)
	}
}

func TestNewRedisStore_BadURL(t *testing.T) {
	if _, err := NewRedisStore(RedisConfig{URL: "not-a-url"}); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

// Verify RedisStore implements SessionStore
var _ SessionStore = (*RedisStore)(nil)
