package database

type ChatRepository interface {
	Ping() error
	CreateAccount(accountParams CreateAccountParams) (User, error)
	GetAccountById(accountId int) (User, error)
	GetAccountByEmail(email string) (User, error)
	UserExists(username string) bool
	RoomExists(slug string) bool
	GetRoomBySlug(slug string) (Room, error)
	ListRooms() ([]Room, error)
	CreateRoom(params CreateRoomParams) (Room, error)
	CreateChatMessage(username, roomSlug, content string) (Message, error)
	GetRoomMessages(roomSlug string, limit int) ([]Message, error)
	CreatePrivateMessage(fromUsername, toUsername, content string) (PrivateMessage, error)
	GetPrivateMessages(username string, limit int) ([]PrivateMessage, error)
	MarkPrivateMessagesRead(username string) error
}
