package webserver

import (
	"crypto/subtle"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type Auth struct {
	apiKeys   []string
	jwtSecret []byte
}

func NewAuth(apiKeys []string, secret []byte) Auth {
	return Auth{apiKeys: apiKeys, jwtSecret: secret}
}

// Token exchanges a configured API key for a short-lived bearer token.
// With no API keys configured the service runs open and this endpoint
// reports that instead of minting tokens.
func (a Auth) Token(c *gin.Context) {
	if len(a.apiKeys) == 0 {
		c.JSON(http.StatusOK, gin.H{"open": true})
		return
	}

	var req struct {
		APIKey string `json:"apiKey" binding:"required,min=8,max=128"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	matched := false
	for _, k := range a.apiKeys {
		if subtle.ConstantTimeCompare([]byte(k), []byte(req.APIKey)) == 1 {
			matched = true
		}
	}
	if !matched {
		log.Printf("rejected token request from %s", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"err": "unknown api key"})
		return
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "api",
		"exp": time.Now().Add(1 * time.Hour).Unix(),
	})
	signed, err := tok.SignedString(a.jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": "failed to sign token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": signed})
}
