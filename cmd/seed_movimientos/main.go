// seed_movimientos genera un script SQL de movimientos históricos a partir de
// un CSV exportado de sistemas legados (típicamente Latin-1).
//
// Uso: go run ./cmd/seed_movimientos [ruta/movimientos.csv]
// Por defecto busca movimientos.csv en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/002_seed_movimientos.sql
//
// Columnas esperadas: id_inventario;tipo;cantidad;costo_unitario;fecha;tipo_comprobante;numero_comprobante
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type fila struct {
	idInventario      string
	tipo              string
	cantidad          decimal.Decimal
	costoUnitario     decimal.Decimal
	fecha             string
	tipoComprobante   string
	numeroComprobante string
}

func main() {
	csvPath := "movimientos.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	// Exportes legados llegan en ISO-8859-1; el script de salida es UTF-8.
	r := csv.NewReader(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	r.Comma = ';'
	r.TrimLeadingSpace = true

	registros, err := r.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	var filas []fila
	for i, reg := range registros {
		if i == 0 && strings.EqualFold(reg[0], "id_inventario") {
			continue // cabecera
		}
		if len(reg) < 7 {
			fmt.Fprintf(os.Stderr, "Fila %d: se esperaban 7 columnas, hay %d\n", i+1, len(reg))
			os.Exit(1)
		}
		tipo := strings.ToUpper(strings.TrimSpace(reg[1]))
		if tipo != "ENTRADA" && tipo != "SALIDA" {
			fmt.Fprintf(os.Stderr, "Fila %d: tipo desconocido %q\n", i+1, reg[1])
			os.Exit(1)
		}
		cantidad, err := decimal.NewFromString(strings.TrimSpace(reg[2]))
		if err != nil || cantidad.LessThanOrEqual(decimal.Zero) {
			fmt.Fprintf(os.Stderr, "Fila %d: cantidad inválida %q\n", i+1, reg[2])
			os.Exit(1)
		}
		costo, err := decimal.NewFromString(strings.TrimSpace(reg[3]))
		if err != nil || costo.IsNegative() {
			fmt.Fprintf(os.Stderr, "Fila %d: costo inválido %q\n", i+1, reg[3])
			os.Exit(1)
		}
		filas = append(filas, fila{
			idInventario:      strings.TrimSpace(reg[0]),
			tipo:              tipo,
			cantidad:          cantidad,
			costoUnitario:     costo,
			fecha:             strings.TrimSpace(reg[4]),
			tipoComprobante:   escapeSQL(strings.TrimSpace(reg[5])),
			numeroComprobante: escapeSQL(strings.TrimSpace(reg[6])),
		})
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "002_seed_movimientos.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Movimientos históricos importados de sistema legado\n")
	out.WriteString("-- Generado desde " + filepath.Base(csvPath) + "\n\n")

	// El orden del CSV define la secuencia dentro del mismo día: se insertan
	// en orden para que el BIGSERIAL respete la cronología del exporte.
	for _, fl := range filas {
		costoTotal := fl.cantidad.Mul(fl.costoUnitario)
		fmt.Fprintf(out,
			"INSERT INTO movimientos (id, id_inventario, tipo, cantidad, costo_unitario, costo_total, tipo_comprobante, numero_comprobante, fecha, created_by)\n"+
				"VALUES (gen_random_uuid(), %s, '%s', %s, %s, %s, '%s', '%s', '%s', 'seed');\n",
			fl.idInventario, fl.tipo,
			fl.cantidad.String(), fl.costoUnitario.String(), costoTotal.String(),
			fl.tipoComprobante, fl.numeroComprobante, fl.fecha)
	}

	fmt.Printf("Generado %s: %d movimientos\n", outPath, len(filas))
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
