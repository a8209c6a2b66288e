package transport

import "encoding/json"

// Outbound payload shapes, matching the server's expectations.
type sendMessagePayload struct {
	To      string `json:"to"`
	Content string `json:"content"`
}

type sendGroupMessagePayload struct {
	GroupID string `json:"groupId"`
	Content string `json:"content"`
}

type typingPayload struct {
	To string `json:"to"`
}

type groupTypingPayload struct {
	GroupID string `json:"groupId"`
}

type markSeenPayload struct {
	WithUser string `json:"withUser"`
}

type messageDeliveredPayload struct {
	MessageID string `json:"messageId"`
	From      string `json:"from"`
}

type activeChatPayload struct {
	ChatWith *string `json:"chatWith"`
}

func encodePayload(payload any) (json.RawMessage, error) {
	return json.Marshal(payload)
}

func (a *Adapter) SendMessage(to, content string) error {
	return a.Emit(EventSendMessage, sendMessagePayload{To: to, Content: content})
}

func (a *Adapter) SendGroupMessage(groupID, content string) error {
	return a.Emit(EventSendGroupMessage, sendGroupMessagePayload{GroupID: groupID, Content: content})
}

func (a *Adapter) Typing(to string) error {
	return a.Emit(EventTyping, typingPayload{To: to})
}

func (a *Adapter) StopTyping(to string) error {
	return a.Emit(EventStopTyping, typingPayload{To: to})
}

func (a *Adapter) GroupTyping(groupID string) error {
	return a.Emit(EventGroupTyping, groupTypingPayload{GroupID: groupID})
}

func (a *Adapter) GroupStopTyping(groupID string) error {
	return a.Emit(EventGroupStopTyping, groupTypingPayload{GroupID: groupID})
}

func (a *Adapter) MarkSeen(withUser string) error {
	return a.Emit(EventMarkSeen, markSeenPayload{WithUser: withUser})
}

func (a *Adapter) MessageDelivered(messageID, from string) error {
	return a.Emit(EventMessageDelivered, messageDeliveredPayload{MessageID: messageID, From: from})
}

// ActiveChat announces which direct conversation is open; nil means none.
func (a *Adapter) ActiveChat(chatWith *string) error {
	return a.Emit(EventActiveChat, activeChatPayload{ChatWith: chatWith})
}

func (a *Adapter) GetOnlineUsers() error {
	return a.Emit(EventGetOnlineUsers, nil)
}

func (a *Adapter) JoinGroups() error {
	return a.Emit(EventJoinGroups, nil)
}
