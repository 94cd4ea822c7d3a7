package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/hadirin/hadirin-backend-go/internal/config"
	appHTTP "github.com/hadirin/hadirin-backend-go/internal/handler/http"
	"github.com/hadirin/hadirin-backend-go/internal/pkg/database"
	"github.com/hadirin/hadirin-backend-go/internal/pkg/jwt"
	"github.com/hadirin/hadirin-backend-go/internal/pkg/storage"
	"github.com/hadirin/hadirin-backend-go/internal/repository/postgresql"
	attendanceService "github.com/hadirin/hadirin-backend-go/internal/service/attendance"
	"github.com/hadirin/hadirin-backend-go/internal/service/file"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	attendanceRepo := postgresql.NewAttendanceRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatal("Failed to initialize local storage:", err)
	}
	fileService := file.NewFileService(fileStorage)

	attendanceSvc := attendanceService.NewAttendanceService(
		cfg.Attendance,
		attendanceRepo,
		fileService,
	)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)

	router := appHTTP.NewRouter(jwtService, attendanceHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
