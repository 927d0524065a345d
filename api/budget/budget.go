package budget

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
)

func StartBudgetService(pool *pgxpool.Pool) {
	router := mux.NewRouter()
	router.HandleFunc("/budget/state", GetState(pool)).Methods("POST")
	router.HandleFunc("/budget/add", AddEntry(pool)).Methods("POST")
	router.HandleFunc("/budget/upload", UploadBudget(pool)).Methods("POST")
	router.HandleFunc("/budget/commit", CommitChanges(pool)).Methods("POST")
	router.HandleFunc("/budget/recalc", RecalcAll(pool)).Methods("POST")
	router.HandleFunc("/budget/clear", ClearAll(pool)).Methods("POST")
	router.HandleFunc("/budget/export", DownloadBudget(pool)).Methods("GET", "POST")

	log.Println("Budget Service started on :6143")
	if err := http.ListenAndServe(":6143", router); err != nil {
		log.Fatalf("Budget Service failed: %v", err)
	}
}
