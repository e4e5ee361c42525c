package database

import (
	"time"
)

const (
	createChatMessageQuery = "INSERT INTO messages (room_id, user_id, content, created_at) " +
		"SELECT r.id, a.id, $3, $4 FROM rooms r, accounts a WHERE r.slug = $1 AND a.username = $2 " +
		"RETURNING id, room_id, user_id, created_at"
	createPrivateMessageQuery = "INSERT INTO private_messages (from_id, to_id, content, created_at) " +
		"SELECT f.id, t.id, $3, $4 FROM accounts f, accounts t WHERE f.username = $1 AND t.username = $2 " +
		"RETURNING id, from_id, to_id, created_at"
)

func (db *PgChatRepository) CreateAccount(accountParams CreateAccountParams) (User, error) {
	res := db.conn.QueryRow(
		"INSERT INTO accounts (username, email, password_hash, created_at) "+
			"VALUES ($1, $2, $3, $4) RETURNING id, username, email, created_at",
		accountParams.Username,
		accountParams.EmailAddress,
		accountParams.PasswordHash,
		time.Now().UTC(),
	)

	var u User
	err := res.Scan(
		&u.Id,
		&u.Username,
		&u.EmailAddress,
		&u.CreatedAt,
	)

	return u, err
}

func (db *PgChatRepository) GetAccountById(id int) (User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, email, created_at FROM accounts "+
			"WHERE id = $1 LIMIT 1",
		id,
	)

	var user User
	err := row.Scan(
		&user.Id,
		&user.Username,
		&user.EmailAddress,
		&user.CreatedAt,
	)

	return user, err
}

func (db *PgChatRepository) GetAccountByEmail(email string) (User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, email, password_hash, created_at FROM accounts "+
			"WHERE email = $1 LIMIT 1",
		email,
	)

	var user User
	err := row.Scan(
		&user.Id,
		&user.Username,
		&user.EmailAddress,
		&user.PasswordHash,
		&user.CreatedAt,
	)

	return user, err
}

func (db *PgChatRepository) UserExists(username string) bool {
	res := db.conn.QueryRow(
		"SELECT id FROM accounts WHERE username = $1 LIMIT 1",
		username,
	)

	var id int
	return res.Scan(&id) == nil
}

func (db *PgChatRepository) RoomExists(slug string) bool {
	res := db.conn.QueryRow(
		"SELECT id FROM rooms WHERE slug = $1 LIMIT 1",
		slug,
	)

	var id int
	return res.Scan(&id) == nil
}

func (db *PgChatRepository) GetRoomBySlug(slug string) (Room, error) {
	row := db.conn.QueryRow(
		"SELECT id, name, slug, created_at FROM rooms "+
			"WHERE slug = $1 LIMIT 1",
		slug,
	)

	var room Room
	err := row.Scan(
		&room.Id,
		&room.Name,
		&room.Slug,
		&room.CreatedAt,
	)

	return room, err
}

func (db *PgChatRepository) ListRooms() ([]Room, error) {
	rows, err := db.conn.Query(
		"SELECT id, name, slug, created_at FROM rooms ORDER BY name",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []Room
	for rows.Next() {
		var room Room
		if err = rows.Scan(&room.Id, &room.Name, &room.Slug, &room.CreatedAt); err != nil {
			break
		}

		rooms = append(rooms, room)
	}
	return rooms, err
}

func (db *PgChatRepository) CreateRoom(params CreateRoomParams) (Room, error) {
	res := db.conn.QueryRow(
		"INSERT INTO rooms (name, slug, created_at) "+
			"VALUES ($1, $2, $3) RETURNING id, name, slug, created_at",
		params.Name,
		params.Slug,
		time.Now().UTC(),
	)

	var room Room
	err := res.Scan(
		&room.Id,
		&room.Name,
		&room.Slug,
		&room.CreatedAt,
	)

	return room, err
}

func (db *PgChatRepository) CreateChatMessage(username, roomSlug, content string) (Message, error) {
	res := db.conn.QueryRow(
		createChatMessageQuery,
		roomSlug,
		username,
		content,
		time.Now().UTC(),
	)

	msg := Message{
		RoomSlug: roomSlug,
		Username: username,
		Content:  content,
	}
	err := res.Scan(
		&msg.Id,
		&msg.RoomId,
		&msg.UserId,
		&msg.CreatedAt,
	)

	return msg, err
}

func (db *PgChatRepository) GetRoomMessages(roomSlug string, limit int) ([]Message, error) {
	rows, err := db.conn.Query(
		"SELECT m.id, m.room_id, r.slug, m.user_id, a.username, m.content, m.created_at "+
			"FROM messages m JOIN rooms r ON m.room_id = r.id JOIN accounts a ON m.user_id = a.id "+
			"WHERE r.slug = $1 ORDER BY m.created_at, m.id LIMIT $2",
		roomSlug,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages = make([]Message, 0, limit)
	for rows.Next() {
		var msg Message
		if err = rows.Scan(&msg.Id, &msg.RoomId, &msg.RoomSlug, &msg.UserId, &msg.Username, &msg.Content, &msg.CreatedAt); err != nil {
			break
		}

		messages = append(messages, msg)
	}
	return messages, err
}

func (db *PgChatRepository) CreatePrivateMessage(fromUsername, toUsername, content string) (PrivateMessage, error) {
	res := db.conn.QueryRow(
		createPrivateMessageQuery,
		fromUsername,
		toUsername,
		content,
		time.Now().UTC(),
	)

	msg := PrivateMessage{
		FromUsername: fromUsername,
		ToUsername:   toUsername,
		Content:      content,
	}
	err := res.Scan(
		&msg.Id,
		&msg.FromId,
		&msg.ToId,
		&msg.CreatedAt,
	)

	return msg, err
}

func (db *PgChatRepository) GetPrivateMessages(username string, limit int) ([]PrivateMessage, error) {
	rows, err := db.conn.Query(
		"SELECT p.id, p.from_id, f.username, p.to_id, t.username, p.content, p.is_read, p.created_at "+
			"FROM private_messages p JOIN accounts f ON p.from_id = f.id JOIN accounts t ON p.to_id = t.id "+
			"WHERE f.username = $1 OR t.username = $1 ORDER BY p.created_at, p.id LIMIT $2",
		username,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages = make([]PrivateMessage, 0, limit)
	for rows.Next() {
		var msg PrivateMessage
		if err = rows.Scan(&msg.Id, &msg.FromId, &msg.FromUsername, &msg.ToId, &msg.ToUsername, &msg.Content, &msg.IsRead, &msg.CreatedAt); err != nil {
			break
		}

		messages = append(messages, msg)
	}
	return messages, err
}

func (db *PgChatRepository) MarkPrivateMessagesRead(username string) error {
	_, err := db.conn.Exec(
		"UPDATE private_messages SET is_read = TRUE "+
			"WHERE NOT is_read AND to_id = (SELECT id FROM accounts WHERE username = $1)",
		username,
	)

	return err
}
