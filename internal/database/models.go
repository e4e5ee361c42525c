package database

import "time"

type Room struct {
	Id        int
	Name      string
	Slug      string
	CreatedAt time.Time
}

type User struct {
	Id           int
	Username     string
	EmailAddress string
	PasswordHash string
	CreatedAt    time.Time
}

type Message struct {
	Id        int
	RoomId    int
	RoomSlug  string
	UserId    int
	Username  string
	Content   string
	CreatedAt time.Time
}

type PrivateMessage struct {
	Id           int
	FromId       int
	FromUsername string
	ToId         int
	ToUsername   string
	Content      string
	IsRead       bool
	CreatedAt    time.Time
}

type CreateAccountParams struct {
	Username     string
	EmailAddress string
	PasswordHash string
}

type CreateRoomParams struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}
