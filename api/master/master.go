package master

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
)

func StartMasterService(pool *pgxpool.Pool) {
	router := mux.NewRouter()
	router.HandleFunc("/master/upload", UploadMasters(pool)).Methods("POST")
	router.HandleFunc("/master/clients", GetClients(pool)).Methods("POST")
	router.HandleFunc("/master/products", GetProducts(pool)).Methods("POST")
	router.HandleFunc("/master/template", DownloadTemplate()).Methods("GET")

	log.Println("Master Service started on :2143")
	if err := http.ListenAndServe(":2143", router); err != nil {
		log.Fatalf("Master Service failed: %v", err)
	}
}
