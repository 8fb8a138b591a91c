// Seeds the question bank with a set of challenging questions across subjects.
// Safe to run repeatedly: it is a no-op once any questions exist.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/truth-meter/backend/internal/storage/models"
	"github.com/truth-meter/backend/internal/storage/sqlite"
	"github.com/truth-meter/backend/pkg/config"
	appLogger "github.com/truth-meter/backend/pkg/logger"
)

type seedQuestion struct {
	text            string
	subject         string
	referenceAnswer string
	difficulty      string
}

var seedQuestions = []seedQuestion{
	{
		text:            "Prove that the square root of 2 is irrational using proof by contradiction.",
		subject:         "Math",
		referenceAnswer: "Assume √2 is rational, so √2 = a/b where a and b are coprime integers. Then 2 = a²/b², so a² = 2b². This means a² is even, so a must be even. Let a = 2k. Then 4k² = 2b², so b² = 2k², meaning b² is even and b is even. But if both a and b are even, they share a common factor of 2, contradicting our assumption that they are coprime. Therefore, √2 must be irrational.",
		difficulty:      "Hard",
	},
	{
		text:            "What is the Taylor series expansion of e^x around x = 0?",
		subject:         "Math",
		referenceAnswer: "The Taylor series expansion of e^x around x = 0 is: e^x = 1 + x + x²/2! + x³/3! + x⁴/4! + ... = Σ(x^n/n!) for n from 0 to infinity. This series converges for all real values of x.",
		difficulty:      "Hard",
	},
	{
		text:            "Explain the Monty Hall problem and its solution.",
		subject:         "Math",
		referenceAnswer: "The Monty Hall problem: You're on a game show with 3 doors. Behind one is a car, behind the others are goats. You pick door 1. The host, who knows what's behind each door, opens door 3 to reveal a goat. Should you switch to door 2? Answer: Yes, you should switch. Initially, you had a 1/3 chance of being correct. When the host reveals a goat, the probability doesn't transfer to your original choice - it transfers to the remaining door. By switching, you have a 2/3 chance of winning the car versus 1/3 if you stay.",
		difficulty:      "Hard",
	},
	{
		text:            "Explain the Heisenberg Uncertainty Principle and its mathematical formulation.",
		subject:         "Physics",
		referenceAnswer: "The Heisenberg Uncertainty Principle states that you cannot simultaneously know the exact position and momentum of a particle with arbitrary precision. Mathematically: Δx · Δp ≥ ℏ/2, where Δx is the uncertainty in position, Δp is the uncertainty in momentum, and ℏ is the reduced Planck constant (h/2π ≈ 1.055 × 10⁻³⁴ J·s). This is a fundamental property of quantum mechanics, not a limitation of measurement technology.",
		difficulty:      "Hard",
	},
	{
		text:            "What is the Schrödinger equation and what does it describe?",
		subject:         "Physics",
		referenceAnswer: "The time-dependent Schrödinger equation is: iℏ(∂ψ/∂t) = Ĥψ, where ψ is the wave function, i is the imaginary unit, ℏ is the reduced Planck constant, t is time, and Ĥ is the Hamiltonian operator. It describes how the quantum state of a physical system changes over time and is fundamental to quantum mechanics. The wave function ψ contains all possible information about the system.",
		difficulty:      "Hard",
	},
	{
		text:            "Explain the mechanism of CRISPR-Cas9 gene editing.",
		subject:         "Biology",
		referenceAnswer: "CRISPR-Cas9 is a gene editing tool derived from bacterial immune systems. It uses two components: (1) Cas9 enzyme acts as molecular scissors to cut DNA, and (2) guide RNA (gRNA) directs Cas9 to the specific DNA sequence to cut. The gRNA is designed to match the target gene sequence. When Cas9 cuts the DNA, the cell's repair mechanisms activate. Scientists can exploit this by providing a DNA template, causing the cell to insert desired sequences during repair. This allows precise editing of genes to correct mutations or add new traits.",
		difficulty:      "Hard",
	},
	{
		text:            "What is the Krebs cycle and where does it occur?",
		subject:         "Biology",
		referenceAnswer: "The Krebs cycle (citric acid cycle) is a series of chemical reactions in cellular respiration that generates energy through oxidation of acetyl-CoA. It occurs in the mitochondrial matrix. The cycle produces: 3 NADH, 1 FADH₂, 1 ATP (or GTP), and 2 CO₂ per acetyl-CoA. Key steps: acetyl-CoA + oxaloacetate → citrate → isocitrate → α-ketoglutarate → succinyl-CoA → succinate → fumarate → malate → oxaloacetate. The NADH and FADH₂ feed into the electron transport chain for ATP synthesis.",
		difficulty:      "Hard",
	},
	{
		text:            "Explain the time complexity of QuickSort and when it performs worst.",
		subject:         "Computer Science",
		referenceAnswer: "QuickSort has an average time complexity of O(n log n) and space complexity of O(log n) due to recursion. However, worst-case time complexity is O(n²), which occurs when the pivot selection consistently results in the most unbalanced partitions (e.g., always picking the smallest or largest element as pivot). This happens with already sorted or reverse-sorted arrays when using the first or last element as pivot. Randomized pivot selection reduces this risk. Best case is O(n log n) with balanced partitions.",
		difficulty:      "Hard",
	},
}

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, "console", "stdout")
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	store, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer store.Close()

	if err := store.InitSchema(); err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	count, err := store.CountQuestions()
	if err != nil {
		appLogger.Fatal("Failed to count questions", zap.Error(err))
	}
	if count > 0 {
		appLogger.Info("Question bank already populated, nothing to do", zap.Int("count", count))
		return
	}

	for _, sq := range seedQuestions {
		question := &models.Question{
			ID:              uuid.New().String(),
			Text:            sq.text,
			Subject:         sq.subject,
			ReferenceAnswer: sq.referenceAnswer,
			Difficulty:      sq.difficulty,
			CreatedAt:       time.Now(),
		}
		if err := store.InsertQuestion(question); err != nil {
			appLogger.Fatal("Failed to insert seed question", zap.Error(err))
		}
	}

	appLogger.Info("Question bank seeded", zap.Int("count", len(seedQuestions)))
}
