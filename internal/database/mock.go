package database

import (
	"github.com/stretchr/testify/mock"
)

type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) Ping() error {
	args := m.Called()
	return args.Error(0)
}
func (m *MockChatRepository) CreateAccount(accountParams CreateAccountParams) (User, error) {
	args := m.Called(accountParams)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockChatRepository) GetAccountById(accountId int) (User, error) {
	args := m.Called(accountId)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockChatRepository) GetAccountByEmail(email string) (User, error) {
	args := m.Called(email)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockChatRepository) UserExists(username string) bool {
	args := m.Called(username)
	return args.Bool(0)
}
func (m *MockChatRepository) RoomExists(slug string) bool {
	args := m.Called(slug)
	return args.Bool(0)
}
func (m *MockChatRepository) GetRoomBySlug(slug string) (Room, error) {
	args := m.Called(slug)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockChatRepository) ListRooms() ([]Room, error) {
	args := m.Called()
	return args.Get(0).([]Room), args.Error(1)
}
func (m *MockChatRepository) CreateRoom(params CreateRoomParams) (Room, error) {
	args := m.Called(params)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockChatRepository) CreateChatMessage(username, roomSlug, content string) (Message, error) {
	args := m.Called(username, roomSlug, content)
	return args.Get(0).(Message), args.Error(1)
}
func (m *MockChatRepository) GetRoomMessages(roomSlug string, limit int) ([]Message, error) {
	args := m.Called(roomSlug, limit)
	return args.Get(0).([]Message), args.Error(1)
}
func (m *MockChatRepository) CreatePrivateMessage(fromUsername, toUsername, content string) (PrivateMessage, error) {
	args := m.Called(fromUsername, toUsername, content)
	return args.Get(0).(PrivateMessage), args.Error(1)
}
func (m *MockChatRepository) GetPrivateMessages(username string, limit int) ([]PrivateMessage, error) {
	args := m.Called(username, limit)
	return args.Get(0).([]PrivateMessage), args.Error(1)
}
func (m *MockChatRepository) MarkPrivateMessagesRead(username string) error {
	args := m.Called(username)
	return args.Error(0)
}
