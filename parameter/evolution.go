package parameter

// Persistence locations used when no flag overrides them
const (
	// GeneticReportPath is the directory for YAML run reports
	GeneticReportPath = "./reports"

	// GeneticArchivePath is the badger directory holding the run history
	GeneticArchivePath = "./data/archive"
)

// Genetic Algorithm - Genome
const (
	// GAAlphabetSize is the number of symbols a genome position can take ('A' onward)
	GAAlphabetSize = 4

	// GAGenomeLength is the fixed number of symbols in every individual
	GAGenomeLength = 16
)

// Genetic Algorithm - Engine Configuration
const (
	// GAPopulationSize is the number of individuals in each generation
	GAPopulationSize = 1000

	// GABreedingPoolSize is how many individuals are admitted for breeding each generation
	GABreedingPoolSize = 100

	// GAMutationRate makes a copying error occur once per GAMutationRate positions (0 disables)
	GAMutationRate = 100

	// GASuccessLevel is the fraction of the population that must match the reference exactly
	GASuccessLevel = 0.75

	// GAMaxGenerations caps breeding rounds per experiment
	GAMaxGenerations = 1000
)

// Genetic Algorithm - Runner Configuration
const (
	// GAExperiments is the number of independent trials per run
	GAExperiments = 100

	// GAWorkers is the number of experiments evaluated concurrently
	GAWorkers = 1
)
