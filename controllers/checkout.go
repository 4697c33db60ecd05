package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"fuko-store/models"
	"fuko-store/services"
	"fuko-store/utils"
)

// multipart overhead allowed on top of the screenshot itself
const formOverheadBytes = 1 << 20

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// CheckoutController drives the checkout flow of the signed-in customer
type CheckoutController struct {
	Checkout  services.CheckoutService
	UploadDir string
	Now       func() time.Time
}

func NewCheckoutController(checkout services.CheckoutService, uploadDir string) *CheckoutController {
	return &CheckoutController{Checkout: checkout, UploadDir: uploadDir, Now: time.Now}
}

// GetCheckout returns the step the customer resumes at
func (cc *CheckoutController) GetCheckout(w http.ResponseWriter, r *http.Request) {
	phone, ok := customerPhone(w, r)
	if !ok {
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	flow, err := cc.Checkout.Resume(ctx, phone)
	if err != nil {
		utils.Error(w, err)
		return
	}
	writeJSON(w, http.StatusOK, flow)
}

// Onboard stores the customer name and first address
func (cc *CheckoutController) Onboard(w http.ResponseWriter, r *http.Request) {
	phone, ok := customerPhone(w, r)
	if !ok {
		return
	}
	var req struct {
		Name    string                 `json:"name"`
		Address models.DeliveryAddress `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	flow, err := cc.Checkout.Onboard(ctx, phone, req.Name, req.Address)
	if err != nil {
		utils.Error(w, err)
		return
	}
	writeJSON(w, http.StatusOK, flow)
}

// GetUPIPayment returns the amount to transfer and the upi:// deep link
func (cc *CheckoutController) GetUPIPayment(w http.ResponseWriter, r *http.Request) {
	phone, ok := customerPhone(w, r)
	if !ok {
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	payment, err := cc.Checkout.Payment(ctx, phone)
	if err != nil {
		utils.Error(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"payment":    payment,
		"intent_url": payment.IntentURL(),
	})
}

// Confirm places the order from a multipart form with address_index and an optional payment_screenshot
func (cc *CheckoutController) Confirm(w http.ResponseWriter, r *http.Request) {
	phone, ok := customerPhone(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, models.MaxPaymentScreenshotBytes+formOverheadBytes)
	if err := r.ParseMultipartForm(models.MaxPaymentScreenshotBytes + formOverheadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || errors.Is(err, multipart.ErrMessageTooLarge) {
			http.Error(w, "Payment screenshot must be 5 MB or smaller", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Invalid checkout form", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	index, err := strconv.Atoi(r.FormValue("address_index"))
	if err != nil || index < 0 {
		utils.Error(w, models.NewValidationError("address_index", "must be a non-negative integer"))
		return
	}

	var screenshot, saved string
	file, header, err := r.FormFile("payment_screenshot")
	switch {
	case err == http.ErrMissingFile:
	case err != nil:
		http.Error(w, "Invalid payment screenshot", http.StatusBadRequest)
		return
	default:
		defer file.Close()
		screenshot, saved, err = cc.saveScreenshot(phone, file, header)
		if err != nil {
			utils.Error(w, err)
			return
		}
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	flow, order, err := cc.Checkout.Confirm(ctx, phone, index, screenshot)
	if err != nil {
		if saved != "" {
			if rmErr := os.Remove(saved); rmErr != nil {
				log.WithError(rmErr).WithField("path", saved).Warn("Failed to remove orphaned screenshot")
			}
		}
		utils.Error(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"flow":  flow,
		"order": order,
	})
}

// saveScreenshot stores the upload under payments/<phone>/ and returns its
// upload-relative path and its path on disk. Every upload gets its own file;
// an existing proof is never overwritten.
func (cc *CheckoutController) saveScreenshot(phone string, file multipart.File, header *multipart.FileHeader) (string, string, error) {
	if header.Size > models.MaxPaymentScreenshotBytes {
		return "", "", models.NewValidationError("payment_screenshot", "must be 5 MB or smaller")
	}

	sniff := make([]byte, 512)
	n, err := io.ReadFull(file, sniff)
	if err != nil && err != io.ErrUnexpectedEOF {
		return "", "", models.NewValidationError("payment_screenshot", "could not be read")
	}
	if !strings.HasPrefix(http.DetectContentType(sniff[:n]), "image/") {
		return "", "", models.NewValidationError("payment_screenshot", "must be an image")
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", "", &models.PersistenceError{Op: "read screenshot", Err: err}
	}

	name := unsafeFilenameChars.ReplaceAllString(filepath.Base(header.Filename), "_")
	if name == "" || name == "." || name == "_" {
		name = "screenshot"
	}
	rel := path.Join("payments", phone, fmt.Sprintf("%d_%s_%s", cc.Now().Unix(), uuid.NewString()[:8], name))
	dst := filepath.Join(cc.UploadDir, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", "", &models.PersistenceError{Op: "create upload dir", Err: err}
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", "", &models.PersistenceError{Op: "create screenshot", Err: err}
	}
	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		os.Remove(dst)
		return "", "", &models.PersistenceError{Op: "write screenshot", Err: err}
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return "", "", &models.PersistenceError{Op: "write screenshot", Err: err}
	}
	return rel, dst, nil
}
