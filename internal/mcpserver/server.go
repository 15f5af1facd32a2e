// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes hifzd tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/quranhifz/hifzd/internal/fsrs"
	"github.com/quranhifz/hifzd/internal/models"
	"github.com/quranhifz/hifzd/internal/studyservice"
)

// Server wraps the MCP server with hifzd tools.
type Server struct {
	mcp *server.MCPServer
	svc *studyservice.Service
}

// New creates a new MCP server with all hifzd tools registered.
func New(svc *studyservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"hifzd",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_page",
		mcp.WithDescription("Reconstruct a Mushaf page: its verses grouped into lines in reading order."),
		mcp.WithNumber("number", mcp.Required(), mcp.Description("Page number (1-604)")),
	), s.getPage)

	s.mcp.AddTool(mcp.NewTool("get_verse",
		mcp.WithDescription("Fetch a single verse with its word segments."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Verse key, e.g. 2:255")),
	), s.getVerse)

	s.mcp.AddTool(mcp.NewTool("search_verses",
		mcp.WithDescription("Diacritic-insensitive full-text search over indexed verses. "+
			"The query may be typed with or without harakat."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Arabic search query")),
	), s.searchVerses)

	s.mcp.AddTool(mcp.NewTool("create_flashcard",
		mcp.WithDescription("Create a memorization flashcard. Cards MUST follow the hifzd card "+
			"contract; read it first via the get_card_contract tool or the hifzd://card-format resource."),
		mcp.WithString("type", mcp.Required(), mcp.Description("Card type: mistake, mutashabihat, transition, custom-transition, or page-number")),
		mcp.WithString("front", mcp.Required(), mcp.Description("Prompt side of the card")),
		mcp.WithString("back", mcp.Description("Answer side of the card")),
		mcp.WithNumber("surah", mcp.Description("Surah the card belongs to")),
		mcp.WithNumber("ayah", mcp.Description("Ayah the card belongs to")),
		mcp.WithNumber("page", mcp.Description("Mushaf page the card belongs to")),
	), s.createFlashcard)

	s.mcp.AddTool(mcp.NewTool("due_flashcards",
		mcp.WithDescription("List flashcards due for review now, oldest due first."),
		mcp.WithString("type", mcp.Description("Optional card type filter")),
	), s.dueFlashcards)

	s.mcp.AddTool(mcp.NewTool("review_flashcard",
		mcp.WithDescription("Grade a flashcard and advance its spaced-repetition schedule."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Flashcard id")),
		mcp.WithNumber("rating", mcp.Required(), mcp.Description("1 = again, 2 = hard, 3 = good, 4 = easy")),
	), s.reviewFlashcard)

	s.mcp.AddTool(mcp.NewTool("flashcard_stats",
		mcp.WithDescription("Summarize the flashcard collection: totals per type and due count."),
	), s.flashcardStats)

	s.mcp.AddTool(mcp.NewTool("get_card_contract",
		mcp.WithDescription("Returns the canonical hifzd flashcard contract. "+
			"Call this before creating cards to ensure correct structure."),
	), s.getCardContract)

	// Resource: flashcard contract.
	s.mcp.AddResource(
		mcp.NewResource("hifzd://card-format", "Flashcard Contract",
			mcp.WithResourceDescription("Canonical flashcard structure that all cards must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readCardFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) getPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	number, err := req.RequireInt("number")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.svc.GetPage(ctx, number)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(detail.Page, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getVerse(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	verse, err := s.svc.GetVerse(ctx, key)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("verse %s: %v", key, err)), nil
	}
	out, _ := json.MarshalIndent(verse, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchVerses(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	hits, err := s.svc.SearchVerses(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(hits, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createFlashcard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardType, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	front, err := req.RequireString("front")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	card := models.Flashcard{
		Type:  models.FlashcardType(cardType),
		Front: front,
		Back:  req.GetString("back", ""),
		Surah: req.GetInt("surah", 0),
		Ayah:  req.GetInt("ayah", 0),
		Page:  req.GetInt("page", 0),
	}
	created, err := s.svc.CreateFlashcard(ctx, card)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", created.ID)), nil
}

func (s *Server) dueFlashcards(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardType := req.GetString("type", "")
	cards, err := s.svc.DueFlashcards(ctx, models.FlashcardType(cardType))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(cards) == 0 {
		return mcp.NewToolResultText("no cards due"), nil
	}
	out, _ := json.MarshalIndent(cards, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) reviewFlashcard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rating, err := req.RequireInt("rating")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	card, err := s.svc.ReviewFlashcard(ctx, id, fsrs.Rating(rating))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("reviewed: %s, next due %s", card.ID, card.FSRS.Due.Format("2006-01-02 15:04"))), nil
}

func (s *Server) flashcardStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.svc.FlashcardStats(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(stats, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getCardContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(CardFormatContract), nil
}

func (s *Server) readCardFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "hifzd://card-format",
			MIMEType: "text/markdown",
			Text:     CardFormatContract,
		},
	}, nil
}
