// Package prompts holds the prompt templates for community summarization
// and map-reduce query answering. Templates use {name} placeholders and are
// rendered through the prompt package.
package prompts

// Summary prompt building blocks. The header, temporal context, metrics and
// analysis instructions are concatenated per community before rendering.

const SummaryHeader = `Analyze this Berlin transport network community and provide a comprehensive summary:

## Community: {name}
**Type**: {dimension}
**Level**: {level}
**Political Context**: {political}
`

const SummaryEraContext = `**Temporal Analysis Type**: Diachronic (Historical Era)
**Time Period**: {period}
**Analysis Focus**: Development patterns and changes during this historical era
`

const SummaryEvolutionContext = `**Temporal Analysis Type**: Evolution Pattern Analysis
**Pattern**: {pattern}
**Analysis Focus**: Operational lifecycle and duration characteristics
`

const SummarySnapshotContext = `**Temporal Analysis Type**: Synchronic (Network Snapshot)
**Snapshot Year**: {year}
**Analysis Focus**: Network state and characteristics at this specific point in time
`

const SummaryInfrastructure = `
## Infrastructure Overview
- **Stations**: {station_count} stations
- **Lines**: {line_count} lines
- **Transport Types**: {transport_types}

## Operational Metrics
- **Average Capacity**: {avg_capacity} passengers
- **Average Frequency**: {avg_frequency} minutes
- **Total Network Length**: {total_length_km} km
- **Political Distribution**: East: {east_count}, West: {west_count}, Unified: {unified_count}
`

const SummaryGeographicCoverage = `
## Geographic Coverage
- **Administrative Areas**: {areas}
`

const SummaryGeographicBounds = `- **Geographic Bounds**: {min_lat}-{max_lat} lat, {min_lon}-{max_lon} lon
`

const SummaryHistoricalContext = `
## Historical Context
- **Time Period**: {time_period}
- **Political Division**: Berlin was divided into East and West sectors during 1949-1989
`

const SummaryEraInstructions = `
Please provide a detailed **DIACHRONIC ANALYSIS** covering:
1. **Historical Development**: Major transport developments and policy changes during this era
2. **Political Influence**: How East/West division shaped transport planning in this period
3. **Infrastructure Evolution**: Key expansions, closures, or modifications
4. **Service Changes**: How transport operations adapted to political and social conditions
5. **Legacy Impact**: How developments in this era influenced later transport planning
6. **Cross-Temporal Patterns**: What trends emerged during this period

Focus on temporal evolution, policy impacts, and how this era fits into Berlin's transport history.
`

const SummaryEvolutionInstructions = `
Please provide a detailed **EVOLUTION PATTERN ANALYSIS** covering:
1. **Operational Lifecycle**: Characteristics of stations/lines with this duration pattern
2. **Planning Strategy**: Why certain infrastructure had this temporal profile
3. **Political Factors**: How division affected infrastructure longevity and planning
4. **Service Adaptation**: How operations evolved based on duration characteristics
5. **Strategic Role**: Function of short vs. long-term infrastructure in the network

Focus on lifecycle patterns, planning decisions, and the role of infrastructure duration in network development.
`

const SummarySnapshotInstructions = `
Please provide a detailed **SYNCHRONIC ANALYSIS** covering:
1. **Network State**: Infrastructure and connectivity as of this snapshot year
2. **Political Context**: Specific political situation and its impact on transport in this year
3. **Service Characteristics**: Transport operations, capacity, and efficiency at this moment
4. **Geographic Coverage**: Spatial distribution and accessibility patterns
5. **Historical Significance**: Why this year was important for Berlin's transport development
6. **Comparative Context**: How this snapshot compares to earlier/later periods

Focus on the specific state of the network at this moment in time and its historical significance.
`

const SummaryGenericInstructions = `
Please provide a detailed analysis covering:
1. **Network Characteristics**: Key infrastructure and connectivity patterns
2. **Service Quality**: Operational efficiency and service levels
3. **Geographic Significance**: Area coverage and accessibility
4. **Historical Development**: How this community fits into Berlin's transport evolution
5. **Political Impact**: Effects of East/West division on transport planning
6. **Strategic Importance**: Role in the overall Berlin transport system

Focus on transport infrastructure, operations, and historical significance. Be specific about the transport modes and their characteristics.
`

// FallbackSummary renders when the model is unavailable and the caller asked
// for a metrics-only summary.
const FallbackSummary = `{name} is a {dimension} transport community containing {station_count} stations and {line_count} lines.

Transport modes include: {transport_types}
Political context: {political}

This community represents an important part of Berlin's historical transport network during the period of study.`

// MapAnswer asks for one community's contribution to the question.
const MapAnswer = `Based on the following transport community analysis, answer the specific question:

Question: {question}

Community Analysis:
{summary}

Please provide a focused answer that addresses the question using information from this transport community. If the community doesn't contain relevant information for the question, indicate that clearly.

Keep your response concise and specific to this community's contribution to answering the question.`

// ReduceAnswer synthesizes partial community answers into the final answer.
const ReduceAnswer = `You are analyzing Berlin's historical transport network (1946-1989). Based on multiple community analyses, provide a comprehensive answer to the question.

Question: {question}

Community Analyses:
{analyses}

Please synthesize these community analyses into a comprehensive, well-structured answer that:
1. Directly addresses the question
2. Integrates insights from different transport communities
3. Provides specific examples and data where available
4. Considers the historical context of divided Berlin
5. Discusses transport infrastructure, operations, and development patterns

Structure your response clearly with sections or bullet points as appropriate.`
