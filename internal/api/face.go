package api

import (
	"errors"                                // Error comparison
	"net/http"                              // HTTP status codes
	"smart_condominium/internal/domain"     // Importing domain models
	"smart_condominium/internal/face"       // Face sentinel errors
	"smart_condominium/internal/middleware" // Current user and validation
	"smart_condominium/internal/ocr"        // OCR sentinel errors
	"smart_condominium/internal/security"   // Recognition service
	"smart_condominium/internal/utils"      // Image decoding

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// ImageRequest carries a base64 image, optionally as a data URL
type ImageRequest struct {
	Image    string `json:"image"`     // Base64 image
	UserID   uint   `json:"user_id"`   // Face registration target, admins only
	CameraID string `json:"camera_id"` // Camera that captured the image
}

// bindImage reads the request image, writing a 400 when it is missing or not base64 and
// a 413 when the body went over the route's limit
func bindImage(c *gin.Context) (*ImageRequest, []byte, bool) {
	var req ImageRequest // Bind JSON request to struct
	err := c.ShouldBindJSON(&req)
	if middleware.IsBodyTooLarge(err) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image too large"})
		return nil, nil, false
	}
	if err != nil || req.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image provided"})
		return nil, nil, false
	}
	image, err := utils.DecodeBase64Image(req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image data"})
		return nil, nil, false
	}
	if req.CameraID == "" {
		req.CameraID = "unknown" // Default camera label
	}
	return &req, image, true
}

// recognitionError maps recognition failures to responses
func recognitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, face.ErrNoFace):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No face detected in image"})
	case errors.Is(err, ocr.ErrNoText):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No text detected in image"})
	case errors.Is(err, security.ErrNoPlate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No valid plate detected in image"})
	case errors.Is(err, security.ErrEncoderUnavailable), errors.Is(err, security.ErrDetectorUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		logrus.WithFields(logrus.Fields{
			"path":  c.FullPath(), // Route being served
			"error": err.Error(),  // Error message
		}).Error("Image processing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing image"})
	}
}

// RegisterFaceHandler enrols the face of the authenticated user. Admins may enrol
// another user with user_id.
func RegisterFaceHandler(svc *security.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, image, ok := bindImage(c)
		if !ok {
			return
		}
		current := middleware.CurrentUser(c)
		userID := current.ID // Enrol self by default
		if req.UserID != 0 && req.UserID != current.ID {
			if !current.IsAdmin() {
				c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
				return
			}
			userID = req.UserID
		}
		rec, err := svc.RegisterFace(c.Request.Context(), userID, image)
		if err != nil {
			recognitionError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message":        "Face registered successfully", // Success message
			"face_record_id": rec.ID,                         // Stored record
		})
	}
}

// RecognizeFaceHandler identifies the face in an image against the enrolled users
func RecognizeFaceHandler(svc *security.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, image, ok := bindImage(c)
		if !ok {
			return
		}
		res, err := svc.RecognizeFace(c.Request.Context(), image)
		if err != nil {
			recognitionError(c, err)
			return
		}
		if !res.Recognized() {
			c.JSON(http.StatusNotFound, gin.H{
				"error":    "Unknown face", // No enrolled user matched
				"event_id": res.Event.ID,   // Recorded unauthorized access
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user":       res.User,                       // Recognized user
			"confidence": res.Confidence,                 // 1 - distance
			"distance":   res.Distance,                   // Descriptor distance
			"event_id":   res.Event.ID,                   // Recorded security event
			"message":    "Face recognized successfully", // Success message
		})
	}
}

// ListFaceRecordsHandler returns the enrolled faces
func ListFaceRecordsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&domain.FaceRecord{}).Order("id asc")
		if userID := c.Query("user_id"); userID != "" {
			query = query.Where("user_id = ?", userID) // Filter by user
		}
		resp, ok := paginate[domain.FaceRecord](c, query, "face records", "User")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// GetFaceRecordHandler returns one enrolled face
func GetFaceRecordHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var rec domain.FaceRecord
		if !findOr404(c, db.Preload("User"), &rec, id, "Face record") {
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

// DeleteFaceRecordHandler removes an enrolled face
func DeleteFaceRecordHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		res := db.WithContext(c.Request.Context()).Delete(&domain.FaceRecord{}, id)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete face record"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Face record not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
