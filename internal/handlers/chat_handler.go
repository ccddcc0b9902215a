package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainchat "github.com/workhive/workhive-api/internal/domain/chat"
	"github.com/workhive/workhive-api/internal/dto"
	"github.com/workhive/workhive-api/internal/httperr"
	"github.com/workhive/workhive-api/internal/middleware"
	"github.com/workhive/workhive-api/internal/presence"
	"github.com/workhive/workhive-api/internal/realtime"
	ucChat "github.com/workhive/workhive-api/internal/usecase/chat"
)

// ======================================================
// HANDLER
// ======================================================

type ChatHandler struct {
	dir      domainchat.Directory
	msgs     domainchat.MessageStore
	profiles domainchat.ProfileStore
	broker   *realtime.Broker
	presence *presence.Tracker

	ensureUC *ucChat.GetOrCreateConversation
	sendUC   *ucChat.SendMessage
}

func NewChatHandler(
	dir domainchat.Directory,
	msgs domainchat.MessageStore,
	profiles domainchat.ProfileStore,
	broker *realtime.Broker,
	tracker *presence.Tracker,
) *ChatHandler {
	return &ChatHandler{
		dir:      dir,
		msgs:     msgs,
		profiles: profiles,
		broker:   broker,
		presence: tracker,
		ensureUC: ucChat.NewGetOrCreateConversation(dir, broker),
		sendUC:   ucChat.NewSendMessage(dir, msgs, broker),
	}
}

// ======================================================
// LIST CONVERSATIONS
// ======================================================

// List returns the ordered conversation list. The same synchronizer
// that backs the live websocket feed produces the one-shot snapshot, so
// REST and push never disagree on ordering.
func (h *ChatHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	sync := ucChat.NewListSynchronizer(userID, h.dir, h.msgs, h.profiles, h.broker)
	if err := sync.Start(c.Request.Context()); err != nil {
		sync.Close()
		httperr.Internal(c, "failed_to_list_conversations", "Could not load conversations.")
		return
	}
	entries := sync.Snapshot()
	sync.Close()

	partnerIDs := make([]uint, 0, len(entries))
	for _, e := range entries {
		partnerIDs = append(partnerIDs, e.Partner.ID)
	}
	online, err := h.presence.OnlineSet(c.Request.Context(), partnerIDs)
	if err != nil {
		// presence is decoration; the list is still correct without it
		online = map[uint]bool{}
	}

	out := make([]dto.ChatListEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ChatListEntryDTO{
			ConversationID: e.ConversationID,
			Partner: dto.ChatPartnerDTO{
				ID:        e.Partner.ID,
				Username:  e.Partner.Username,
				AvatarURL: e.Partner.AvatarURL,
				Online:    online[e.Partner.ID],
			},
			LastMessage: dto.NewChatMessageDTO(e.LastMessage),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  out,
		"total": len(out),
	})
}

// ======================================================
// OPEN CONVERSATION
// ======================================================

// Open ensures the conversation exists and returns the full ordered
// message log plus the partner's display data.
func (h *ChatHandler) Open(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	peerID, err := strconv.ParseUint(c.Param("peerID"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_peer_id", "Invalid user id.")
		return
	}

	conv, err := h.ensureUC.Execute(c.Request.Context(), userID, uint(peerID))
	if err != nil {
		httperr.FromBusiness(c, err, "failed_to_open_conversation", "Could not open conversation.")
		return
	}

	msgs, err := h.msgs.ListMessages(c.Request.Context(), conv.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_load_messages", "Could not load messages.")
		return
	}

	partner, err := h.profiles.GetUser(c.Request.Context(), uint(peerID))
	if err != nil {
		partner = nil
	}

	resp := gin.H{
		"conversation_id": conv.ID,
		"messages":        msgs,
	}
	if partner != nil {
		partnerOnline, perr := h.presence.Online(c.Request.Context(), partner.ID)
		if perr != nil {
			partnerOnline = false
		}
		resp["partner"] = dto.ChatPartnerDTO{
			ID:        partner.ID,
			Username:  partner.Username,
			AvatarURL: partner.AvatarURL,
			Online:    partnerOnline,
		}
	}

	c.JSON(http.StatusOK, resp)
}

// ======================================================
// SEND
// ======================================================

type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *ChatHandler) Send(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	peerID, err := strconv.ParseUint(c.Param("peerID"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_peer_id", "Invalid user id.")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "empty_message", "Message text cannot be empty.")
		return
	}

	conv, err := h.ensureUC.Execute(c.Request.Context(), userID, uint(peerID))
	if err != nil {
		httperr.FromBusiness(c, err, "failed_to_open_conversation", "Could not open conversation.")
		return
	}

	msg, err := h.sendUC.Execute(c.Request.Context(), conv.ID, userID, req.Text)
	if err != nil {
		httperr.FromBusiness(c, err, "failed_to_send_message", "Could not send message.")
		return
	}

	c.JSON(http.StatusCreated, msg)
}
