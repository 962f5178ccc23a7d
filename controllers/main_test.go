// file: controllers/main_test.go
package controllers

import (
	"os"
	"testing"
	"time"

	"go-gym-classes/config"
	"go-gym-classes/websocket"
)

func TestMain(m *testing.M) {
	// If needed, init test environment
	websocket.InitTest()
	go websocket.HandleMessages() // start only once

	SetConfig(&config.Config{
		ApplicationURL:     "http://localhost:8080",
		WebsocketURL:       "ws://localhost:8080/timetable/updates",
		Location:           time.UTC,
		BusinessBeginsHour: 7,
		BusinessEndsHour:   22,
		DayViewMaxWidth:    768,
	})

	code := m.Run()
	os.Exit(code)
}
