package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	json "github.com/json-iterator/go"

	"github.com/diogomassis/ngenius-bridge/internal/dto"
	"github.com/diogomassis/ngenius-bridge/internal/models"
	"github.com/diogomassis/ngenius-bridge/internal/services/orchestrator"
)

type PaymentController interface {
	Pay(ctx context.Context, req orchestrator.PayRequest) orchestrator.Result
	SavedCard(ctx context.Context) *models.SavedCardRecord
	ForgetSavedCard(ctx context.Context)
	SaveCardEnabled() bool
	SetSaveCardEnabled(enabled bool)
	Wallets(ctx context.Context) models.WalletAvailability
	InFlight() bool
	Phase() string
}

var Controller PaymentController

// NewApp builds the fiber app with the demo routes mounted.
func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "ngenius-bridge",
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: handleError,
	})
	Register(app)
	return app
}

func Register(app *fiber.App) {
	app.Post("/payments/:instrument", HandlePostPayment)
	app.Get("/payments/status", HandleGetStatus)
	app.Get("/saved-card", HandleGetSavedCard)
	app.Delete("/saved-card", HandleDeleteSavedCard)
	app.Put("/saved-card/mode", HandlePutSaveCardMode)
	app.Get("/wallets", HandleGetWallets)
}

func HandlePostPayment(c *fiber.Ctx) error {
	instrument := models.Instrument(c.Params("instrument"))
	if !instrument.Valid() {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "unknown payment instrument"})
	}

	var req dto.PaymentRequest
	if err := c.BodyParser(&req); err != nil || req.Amount < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid payment request"})
	}

	res := Controller.Pay(c.UserContext(), orchestrator.PayRequest{
		Instrument: instrument,
		Amount:     req.Amount,
		CVV:        req.CVV,
	})
	if errors.Is(res.Err, orchestrator.ErrPaymentInFlight) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: "a payment is already in progress"})
	}

	status := fiber.StatusOK
	if !res.Success {
		status = fiber.StatusPaymentRequired
	}
	return c.Status(status).JSON(dto.PaymentResponse{
		Message: res.Message,
		Success: res.Success,
		Order:   res.Order,
		Amount:  res.Outcome.DisplayAmount,
	})
}

func HandleGetStatus(c *fiber.Ctx) error {
	return c.JSON(dto.StatusResponse{InFlight: Controller.InFlight(), Phase: Controller.Phase()})
}

func HandleGetSavedCard(c *fiber.Ctx) error {
	card := Controller.SavedCard(c.UserContext())
	if card == nil {
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.JSON(dto.SavedCardResponse{
		CardholderName: card.CardholderName,
		MaskedPan:      card.MaskedPan,
		ValidUpto:      card.ValidUpto(),
		Scheme:         card.SchemeLabel(),
	})
}

func HandleDeleteSavedCard(c *fiber.Ctx) error {
	Controller.ForgetSavedCard(c.UserContext())
	return c.SendStatus(fiber.StatusNoContent)
}

func HandlePutSaveCardMode(c *fiber.Ctx) error {
	var req dto.SaveCardModeRequest
	if err := c.BodyParser(&req); err != nil || req.Enabled == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "enabled is required"})
	}
	Controller.SetSaveCardEnabled(*req.Enabled)
	return c.JSON(dto.SaveCardModeResponse{Enabled: Controller.SaveCardEnabled()})
}

func HandleGetWallets(c *fiber.Ctx) error {
	return c.JSON(Controller.Wallets(c.UserContext()))
}

func handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(dto.ErrorResponse{Error: err.Error()})
}
