package cli

import (
	"errors"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/go-gota/gota/dataframe"
	"github.com/spf13/cobra"

	"github.com/byq630/us-census-income-analysis/internal/logger"
	"github.com/byq630/us-census-income-analysis/pkg/data"
	"github.com/byq630/us-census-income-analysis/pkg/dataprep"
	"github.com/byq630/us-census-income-analysis/pkg/loader"
	"github.com/byq630/us-census-income-analysis/pkg/model"
	"github.com/byq630/us-census-income-analysis/pkg/pipeline"
	"github.com/byq630/us-census-income-analysis/pkg/report"
	"github.com/byq630/us-census-income-analysis/pkg/schema"
)

type evaluateOptions struct {
	train, holdout string
	split          float64
	threshold      float64
	features       []string

	lr        float64
	epochs    int
	batchSize int
	seed      int64

	saveModel string
	loadModel string
	report    string
}

func evaluateCmd(a *app) *cobra.Command {
	var o evaluateOptions

	c := &cobra.Command{
		Use:   "evaluate",
		Short: "Fit the baseline classifier and score it on held-out rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("threshold") {
				o.threshold = a.cfg.Threshold
			}
			if o.threshold < 0 || o.threshold > 1 {
				return fmt.Errorf("evaluate: threshold %v is outside [0, 1]", o.threshold)
			}

			metrics, rows, err := a.evaluate(o)
			if err != nil {
				return err
			}
			if err := printMetrics(cmd, metrics); err != nil {
				return err
			}

			if o.report != "" {
				source := o.holdout
				if source == "" {
					source = fmt.Sprintf("split(%g)", o.split)
				}
				ev := report.NewEvaluation(source, rows, o.threshold, metrics)
				if err := report.SaveEvaluation(o.report, ev); err != nil {
					return err
				}
				logger.L().Info("evaluate.report", "id", ev.ID, "path", o.report)
			}
			return nil
		},
	}

	f := c.Flags()
	f.StringVar(&o.train, "train", "", "training CSV (defaults to CENSUS_TRAIN_PATH; unused with --load-model unless --split is set)")
	f.StringVar(&o.holdout, "holdout", "", "held-out CSV (defaults to CENSUS_HOLDOUT_PATH unless --split is set)")
	f.Float64Var(&o.split, "split", 0, "hold out this fraction of the training rows instead of reading a held-out file")
	f.Float64Var(&o.threshold, "threshold", model.DefaultThreshold, "probability at which a row is predicted positive (defaults to CENSUS_THRESHOLD)")
	f.StringSliceVar(&o.features, "features", schema.SelectedFeatures, "feature columns fed to the classifier")
	f.Float64Var(&o.lr, "lr", 0.1, "learning rate")
	f.IntVar(&o.epochs, "epochs", 20, "training epochs")
	f.IntVar(&o.batchSize, "batch-size", 256, "mini-batch size")
	f.Int64Var(&o.seed, "seed", 42, "random seed for shuffling and splitting")
	f.StringVar(&o.saveModel, "save-model", "", "write the fitted pipeline to this file")
	f.StringVar(&o.loadModel, "load-model", "", "score a pipeline saved by --save-model instead of fitting one")
	f.StringVar(&o.report, "report", "", "write a JSON evaluation report to this file")
	return c
}

func (a *app) evaluate(o evaluateOptions) (model.Metrics, int, error) {
	log := logger.L()
	if o.split < 0 || o.split >= 1 {
		return model.Metrics{}, 0, fmt.Errorf("evaluate: split %v is outside [0, 1)", o.split)
	}

	// a loaded pipeline encodes with its saved encoder, never a refit one
	var p *pipeline.Pipeline
	var enc *dataprep.CategoricalEncoder
	if o.loadModel != "" {
		var err error
		if p, err = pipeline.Load(o.loadModel); err != nil {
			return model.Metrics{}, 0, err
		}
		if p.Encoder == nil {
			return model.Metrics{}, 0, fmt.Errorf("evaluate: %s holds no categorical encoder", o.loadModel)
		}
		enc, o.features = p.Encoder, p.Features
	}

	var Xtrain, Xtest [][]float64
	var ytrain, ytest []int
	if p == nil || o.split > 0 {
		train, err := a.loadFrame(o.train)
		if err != nil {
			return model.Metrics{}, 0, err
		}
		if enc == nil {
			if enc, err = a.newEncoder(); err != nil {
				return model.Metrics{}, 0, err
			}
			if err := enc.Fit(train); err != nil {
				return model.Metrics{}, 0, err
			}
		}
		if Xtrain, ytrain, err = a.features(enc.Transform, train, o.features); err != nil {
			return model.Metrics{}, 0, err
		}
	}

	if o.split > 0 {
		Xtrain, Xtest, ytrain, ytest = loader.TrainTestSplit(Xtrain, ytrain, o.split, o.seed)
	} else {
		holdoutPath := o.holdout
		if holdoutPath == "" {
			holdoutPath = a.cfg.HoldoutPath
		}
		holdout, err := a.loadFrame(holdoutPath)
		if err != nil {
			return model.Metrics{}, 0, err
		}
		if Xtest, ytest, err = a.features(enc.Transform, holdout, o.features); err != nil {
			return model.Metrics{}, 0, err
		}
	}
	if len(Xtest) == 0 {
		return model.Metrics{}, 0, errors.New("evaluate: no held-out rows")
	}

	if p == nil {
		p = pipeline.NewBaseline(o.features, o.lr, o.epochs, o.batchSize, o.seed)
		p.Encoder = enc
		y := make([]float64, len(ytrain))
		for i, v := range ytrain {
			y[i] = float64(v)
		}
		log.Info("evaluate.fit", "rows", len(Xtrain), "features", len(o.features))
		if err := p.Fit(Xtrain, y); err != nil {
			return model.Metrics{}, 0, err
		}
		if o.saveModel != "" {
			if err := p.Save(o.saveModel); err != nil {
				return model.Metrics{}, 0, err
			}
		}
	}

	m, err := model.Evaluate(p, Xtest, ytest, o.threshold)
	if err != nil {
		return model.Metrics{}, 0, err
	}
	log.Info("evaluate.done", "rows", len(Xtest), "roc_auc", m.ROCAUC)
	return m, len(Xtest), nil
}

// features encodes df and extracts the feature matrix and binary labels.
func (a *app) features(transform func(dataframe.DataFrame) (dataframe.DataFrame, error), df dataframe.DataFrame, columns []string) ([][]float64, []int, error) {
	y, err := data.Labels(df, a.cfg.Target)
	if err != nil {
		return nil, nil, err
	}
	encoded, err := transform(df)
	if err != nil {
		return nil, nil, err
	}
	X, err := data.Matrix(encoded, columns)
	if err != nil {
		return nil, nil, err
	}
	return X, y, nil
}

func printMetrics(cmd *cobra.Command, m model.Metrics) error {
	scores := m.AsMap()
	keys := make([]string, 0, len(scores))
	for k := range scores {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%.4f\n", k, scores[k])
	}
	return tw.Flush()
}
