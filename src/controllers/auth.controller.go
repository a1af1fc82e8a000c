package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"eventsphere/src/db"
	"eventsphere/src/lib"
	"eventsphere/src/models"
	"eventsphere/src/types"
	"eventsphere/src/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var errBadCredentials = errors.New("invalid email or password")

func AuthRegister(ctx *gin.Context) (id *uint, status int, err error) {
	var body types.RegisterUserRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	role := types.ROLE_STUDENT
	if body.Role != "" {
		role = types.UserRole(body.Role)
	}
	user := models.User{
		Name:         body.Name,
		Email:        body.Email,
		PasswordHash: string(hash),
		Role:         role,
		Faculty:      body.Faculty,
	}
	conn := db.GetDb()
	err = conn.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.
			Model(&models.User{}).
			Where(&models.User{Email: body.Email}).
			Count(&count).
			Error; err != nil {
			return err
		}
		if count > 0 {
			return errors.New("email already registered")
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		log.Printf("Error registering user: %s\n", err.Error())
		return nil, http.StatusBadRequest, err
	}
	return &user.ID, http.StatusCreated, nil
}

func AuthLogin(ctx *gin.Context) (token *string, status int, err error) {
	var body types.LoginRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	conn := db.GetDb()
	var user models.User
	if err := conn.
		Where(&models.User{Email: body.Email}).
		First(&user).
		Error; err != nil {
		log.Printf("error: %s\n", err.Error())
		return nil, http.StatusUnauthorized, errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
		return nil, http.StatusUnauthorized, errBadCredentials
	}
	if user.Suspended {
		return nil, http.StatusForbidden, errors.New("account suspended")
	}

	jwt, err := utils.GenerateJWT(user.Name, user.ID, user.Role)
	if err != nil {
		log.Printf("Error signing token for user [%d]: %s\n", user.ID, err.Error())
		return nil, http.StatusInternalServerError, err
	}
	if rd := lib.GetRedisClient(); rd != nil {
		if err := rd.Set(context.Background(), fmt.Sprintf("%d:token", user.ID), jwt, 0).Err(); err != nil {
			log.Printf("[redis] Error caching session: %s\n", err.Error())
		}
	}
	return &jwt, http.StatusOK, nil
}
